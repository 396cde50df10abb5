package dataset

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

type xlsxWorkbook struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

type xlsxRels struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xlsxRichText struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (rt xlsxRichText) text() string {
	if len(rt.Runs) == 0 {
		return rt.T
	}
	var b strings.Builder
	for _, r := range rt.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

type xlsxShared struct {
	Items []xlsxRichText `xml:"si"`
}

type xlsxSheet struct {
	Rows []struct {
		Cells []struct {
			Ref    string        `xml:"r,attr"`
			Type   string        `xml:"t,attr"`
			Value  string        `xml:"v"`
			Inline *xlsxRichText `xml:"is"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

// ReadXLSX decodes one worksheet of an .xlsx workbook. The sheet is chosen by
// opt.SheetName, falling back to the 1-based opt.SheetIndex.
func ReadXLSX(p string, opt Options) (*Table, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	t, err := readWorkbook(&zr.Reader, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	t.Name = filepath.Base(p)
	return t, nil
}

// ReadXLSXFrom decodes a workbook from an open file or an in-memory upload.
func ReadXLSXFrom(ra io.ReaderAt, size int64, opt Options) (*Table, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	return readWorkbook(zr, opt)
}

func readWorkbook(zr *zip.Reader, opt Options) (*Table, error) {
	target, err := resolveSheet(zr, opt)
	if err != nil {
		return nil, err
	}
	var shared xlsxShared
	if err := decodeZipXML(zr, "xl/sharedStrings.xml", &shared); err != nil && !errors.Is(err, errZipEntryMissing) {
		return nil, fmt.Errorf("read shared strings: %w", err)
	}
	var sheet xlsxSheet
	if err := decodeZipXML(zr, target, &sheet); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", target, err)
	}

	var grid [][]string
	for _, row := range sheet.Rows {
		var rec []string
		for pos, c := range row.Cells {
			idx := pos
			if i := columnIndex(c.Ref); i >= 0 {
				idx = i
			}
			for len(rec) <= idx {
				rec = append(rec, "")
			}
			rec[idx] = cellText(c.Type, c.Value, c.Inline, shared.Items)
		}
		grid = append(grid, rec)
	}
	if len(grid) == 0 {
		return nil, ErrNoHeader
	}
	records := grid[1:]
	truncated := opt.MaxRows > 0 && len(records) > opt.MaxRows
	if truncated {
		records = records[:opt.MaxRows]
	}
	t, err := FromRecords(grid[0], records, opt)
	if err != nil {
		return nil, err
	}
	t.Truncated = truncated
	return t, nil
}

func cellText(kind, v string, inline *xlsxRichText, shared []xlsxRichText) string {
	switch kind {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || i < 0 || i >= len(shared) {
			return ""
		}
		return shared[i].text()
	case "inlineStr":
		if inline != nil {
			return inline.text()
		}
		return ""
	case "b":
		if v == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return v
	}
}

func resolveSheet(zr *zip.Reader, opt Options) (string, error) {
	var wb xlsxWorkbook
	if err := decodeZipXML(zr, "xl/workbook.xml", &wb); err != nil {
		return "", fmt.Errorf("read workbook: %w", err)
	}
	var rels xlsxRels
	_ = decodeZipXML(zr, "xl/_rels/workbook.xml.rels", &rels)
	targets := make(map[string]string, len(rels.Items))
	for _, r := range rels.Items {
		targets[r.ID] = r.Target
	}

	if opt.SheetName != "" {
		names := make([]string, 0, len(wb.Sheets))
		for _, s := range wb.Sheets {
			if strings.EqualFold(s.Name, opt.SheetName) {
				if t, ok := targets[s.RID]; ok {
					return sheetPath(t), nil
				}
			}
			names = append(names, s.Name)
		}
		return "", fmt.Errorf("sheet %q not found (available: %s)", opt.SheetName, strings.Join(names, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	for _, s := range wb.Sheets {
		if s.SheetID == idx {
			if t, ok := targets[s.RID]; ok {
				return sheetPath(t), nil
			}
		}
	}
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", idx), nil
}

// sheetPath maps a relationship target to its zip entry name.
func sheetPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", target)
}

var errZipEntryMissing = errors.New("zip entry missing")

func decodeZipXML(zr *zip.Reader, name string, v any) error {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		if err := xml.NewDecoder(rc).Decode(v); err != nil && err != io.EOF {
			return err
		}
		return nil
	}
	return errZipEntryMissing
}

// columnIndex converts a cell reference such as "C12" to a 0-based column index.
func columnIndex(ref string) int {
	idx := 0
	for _, r := range strings.ToUpper(ref) {
		if r < 'A' || r > 'Z' {
			break
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1
}
