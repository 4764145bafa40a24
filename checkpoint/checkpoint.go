// Package checkpoint implements the durable parameter format behind the
// persistence capability: an lzw-compressed JSON document holding a header
// and named parameter payloads. The contract layer only relies on the
// round trip; the bytes are this package's business.
package checkpoint

import "compress/lzw"
import "encoding/json"
import "io"
import "os"
import "time"

import "github.com/google/uuid"
import "github.com/pkg/errors"

import "github.com/specware/modelspec/tensor"

// FormatVersion is bumped on incompatible layout changes.
const FormatVersion = 1

// Param is one named parameter payload. Exactly one of F32/I64 is set,
// matching Dtype.
type Param struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Dtype string    `json:"dtype"`
	F32   []float32 `json:"f32,omitempty"`
	I64   []int64   `json:"i64,omitempty"`
}

// Checkpoint is the on-disk document.
type Checkpoint struct {
	Version int     `json:"version"`
	Model   string  `json:"model"`
	ModelID string  `json:"model_id"`
	SavedAt string  `json:"saved_at"`
	Params  []Param `json:"params"`
}

// New starts a checkpoint for the named model instance.
func New(model string, id uuid.UUID) *Checkpoint {
	return &Checkpoint{
		Version: FormatVersion,
		Model:   model,
		ModelID: id.String(),
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// AddFloat32 appends an f32 parameter.
func (c *Checkpoint) AddFloat32(name string, shape []int, vals []float32) {
	c.Params = append(c.Params, Param{
		Name:  name,
		Shape: append([]int(nil), shape...),
		Dtype: tensor.F32.String(),
		F32:   append([]float32(nil), vals...),
	})
}

// AddInt64 appends an i64 parameter.
func (c *Checkpoint) AddInt64(name string, shape []int, vals []int64) {
	c.Params = append(c.Params, Param{
		Name:  name,
		Shape: append([]int(nil), shape...),
		Dtype: tensor.I64.String(),
		I64:   append([]int64(nil), vals...),
	})
}

// Param returns the named parameter, or nil.
func (c *Checkpoint) Param(name string) *Param {
	for i := range c.Params {
		if c.Params[i].Name == name {
			return &c.Params[i]
		}
	}
	return nil
}

// Write writes the checkpoint to a writer as compressed JSON.
func Write(w io.Writer, c *Checkpoint) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := json.NewEncoder(lw).Encode(c); err != nil {
		return errors.Wrap(err, "encode checkpoint")
	}
	return errors.Wrap(lw.Close(), "close checkpoint stream")
}

// Read reads a checkpoint from a reader.
func Read(r io.Reader) (*Checkpoint, error) {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	var c Checkpoint
	if err := json.NewDecoder(lr).Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decode checkpoint")
	}
	if c.Version != FormatVersion {
		return nil, errors.Errorf("checkpoint version %d, want %d", c.Version, FormatVersion)
	}
	return &c, nil
}

// WriteFile writes the checkpoint to a file path.
func WriteFile(path string, c *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create checkpoint file")
	}
	werr := Write(f, c)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return errors.Wrap(cerr, "close checkpoint file")
}

// ReadFile reads a checkpoint from a file path.
func ReadFile(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open checkpoint file")
	}
	c, rerr := Read(f)
	f.Close()
	return c, rerr
}
