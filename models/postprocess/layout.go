package postprocess

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Rows returns the detection head output as a row-major [candidates, values]
// matrix.
//
// Exporters disagree on the layout: Ultralytics anchor-free heads emit
// [1, values, candidates] while older heads emit [1, candidates, values]. The
// values axis is always the shorter one, so channel-first outputs are
// transposed. A square output has no shorter axis and is rejected. The
// returned slice never aliases output.
//
// Arguments:
//   - output: The flat output tensor data.
//   - shape: The output tensor shape, [1, a, b] or [a, b].
//
// Returns:
//   - []float32: Row-major data.
//   - int: Number of candidate rows.
//   - int: Number of values per row.
//   - error: If the shape does not describe the data or is square.
func Rows(output []float32, shape []int64) ([]float32, int, int, error) {
	dims := shape
	if len(dims) == 3 {
		if dims[0] != 1 {
			return nil, 0, 0, errors.Errorf("batched output not supported: shape %v", shape)
		}
		dims = dims[1:]
	}
	if len(dims) != 2 {
		return nil, 0, 0, errors.Errorf("unexpected output rank %d: shape %v", len(shape), shape)
	}

	a, b := int(dims[0]), int(dims[1])
	if a <= 0 || b <= 0 || a*b != len(output) {
		return nil, 0, 0, errors.Errorf("output shape %v does not match %d values", shape, len(output))
	}

	if a == b {
		return nil, 0, 0, errors.Errorf("ambiguous square output shape %v", shape)
	}

	buf := make([]float32, len(output))
	copy(buf, output)

	if a > b {
		return buf, a, b, nil
	}

	t := tensor.New(tensor.WithShape(a, b), tensor.WithBacking(buf))
	if err := t.T(); err != nil {
		return nil, 0, 0, errors.Wrap(err, "failed to transpose output")
	}
	if err := t.Transpose(); err != nil {
		return nil, 0, 0, errors.Wrap(err, "failed to transpose output")
	}

	data, ok := t.Data().([]float32)
	if !ok {
		return nil, 0, 0, errors.Errorf("unexpected tensor backing %T", t.Data())
	}

	return data, b, a, nil
}
