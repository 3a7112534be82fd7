package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfPagesPerChapter groups pages when the document exposes no outline; a
// plain page-per-chapter split produces hundreds of tiny chapters.
const pdfPagesPerChapter = 10

func openPDF(path string) (*Book, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	b := &Book{}

	totalPages := reader.NumPage()
	if totalPages == 0 {
		return nil, errors.New("pdf contains no pages")
	}

	var current strings.Builder
	chapterStartPage := 1
	flush := func(endPage int) {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		title := fmt.Sprintf("Pages %d-%d", chapterStartPage, endPage)
		b.Chapters = append(b.Chapters, Chapter{Title: title, Text: text})
	}

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages carry fonts the extractor cannot map; skip them
			// instead of failing the whole book.
			continue
		}
		current.WriteString(text)
		current.WriteByte('\n')

		if pageNum%pdfPagesPerChapter == 0 {
			flush(pageNum)
			chapterStartPage = pageNum + 1
		}
	}
	flush(totalPages)

	if len(b.Chapters) == 0 {
		return nil, errors.New("pdf contains no extractable text")
	}
	return b, nil
}
