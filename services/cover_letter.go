package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"baliance.com/gooxml/document"
	"github.com/google/uuid"
)

// WriteCoverLetterDocx renders cover-letter text to a .docx on disk, one
// paragraph per blank-line-separated block. Used when a form exposes a
// cover-letter file upload but the request only carries text.
func WriteCoverLetterDocx(text, path string) error {
	doc := document.New()
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		doc.AddParagraph().AddRun().AddText(para)
	}
	return doc.SaveToFile(path)
}

// renderCoverLetterFile writes the request's cover-letter text into a temp
// .docx and returns its path, or false if there is no text to render.
func renderCoverLetterFile(req *ApplyRequest) (string, bool) {
	if req.CoverLetter == "" {
		return "", false
	}
	path := filepath.Join(os.TempDir(), fmt.Sprintf("cover_letter_%s.docx", uuid.NewString()))
	if err := WriteCoverLetterDocx(req.CoverLetter, path); err != nil {
		return "", false
	}
	return path, true
}

// withCoverLetterFile renders the cover letter to a temp .docx, hands the
// path to fn, and removes the file afterwards so repeated form steps do not
// accumulate documents in the temp dir. Returns false if there was nothing
// to render.
func withCoverLetterFile(req *ApplyRequest, fn func(path string) error) (bool, error) {
	path, ok := renderCoverLetterFile(req)
	if !ok {
		return false, nil
	}
	defer os.Remove(path)
	return true, fn(path)
}
