// Package resume validates uploaded resume documents before they are
// stored. Only PDF is accepted; validation uses pdfcpu so a corrupt
// upload is rejected at the boundary instead of failing at apply time.
package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxSize caps uploads at 10 MiB, matching what job boards accept.
const MaxSize = 10 << 20

// Info summarizes a validated resume.
type Info struct {
	Filename  string `json:"filename"`
	PageCount int    `json:"pageCount"`
	Size      int    `json:"size"`
}

// Validate checks that data is a readable PDF and returns its summary.
func Validate(filename string, data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("resume: empty file")
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("resume: file exceeds %d bytes", MaxSize)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, fmt.Errorf("resume: only PDF accepted, got %q", filename)
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("resume: invalid PDF: %w", err)
	}

	return &Info{
		Filename:  filename,
		PageCount: ctx.PageCount,
		Size:      len(data),
	}, nil
}
