package dsf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// BinaryTextConverter turns binary DSF files into their text form and back.
// Both methods return the path of the produced file.
type BinaryTextConverter interface {
	ToText(ctx context.Context, dsfPath string) (string, error)
	ToBinary(ctx context.Context, textPath string) (string, error)
}

// DSFTool shells out to Laminar's DSFTool executable for both conversion
// directions. The zero value is not usable; construct with NewDSFTool.
type DSFTool struct {
	path string
	log  *zap.Logger
}

// NewDSFTool returns a converter backed by the DSFTool binary at path.
func NewDSFTool(path string) *DSFTool {
	return &DSFTool{path: path, log: zap.NewNop()}
}

// SetLogger replaces the converter's logger. Passing nil restores the
// no-op default.
func (d *DSFTool) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	d.log = log
}

// ToText converts a binary DSF to text next to the input, returning the
// text file's path.
func (d *DSFTool) ToText(ctx context.Context, dsfPath string) (string, error) {
	out := replaceExt(dsfPath, ".txt")
	if err := d.run(ctx, "--dsf2text", dsfPath, out); err != nil {
		return "", err
	}
	return out, nil
}

// ToBinary converts a text DSF back to binary next to the input, returning
// the binary file's path.
func (d *DSFTool) ToBinary(ctx context.Context, textPath string) (string, error) {
	out := replaceExt(textPath, ".dsf")
	if err := d.run(ctx, "--text2dsf", textPath, out); err != nil {
		return "", err
	}
	return out, nil
}

func (d *DSFTool) run(ctx context.Context, mode, in, out string) error {
	cmd := exec.CommandContext(ctx, d.path, mode, in, out)
	output, err := cmd.CombinedOutput()
	if err != nil {
		d.log.Error("dsftool failed",
			zap.String("mode", mode),
			zap.String("input", in),
			zap.String("output", strings.TrimSpace(string(output))),
			zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", ErrToolFailed, d.path, mode, err)
	}

	// DSFTool exits zero on some failures, so the output file is the
	// real success signal.
	if _, err := os.Stat(out); err != nil {
		return fmt.Errorf("%w: expected %s", ErrNoToolOutput, out)
	}

	d.log.Debug("dsftool finished",
		zap.String("mode", mode),
		zap.String("input", in),
		zap.String("result", out))
	return nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// WriteBinary writes the tile as text into dir and converts it in place to
// a binary DSF, returning the binary file's path. The intermediate text
// file is left on disk for inspection.
func (t *Tile) WriteBinary(ctx context.Context, dir string, south, west int, conv BinaryTextConverter) (string, error) {
	if conv == nil {
		return "", ErrNoConverter
	}
	txtPath, err := t.Write(dir, south, west)
	if err != nil {
		return "", err
	}
	return conv.ToBinary(ctx, txtPath)
}
