package musicxml

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	xmldom "github.com/subchen/go-xmldom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrNotScorePartwise = errors.New("musicxml: root element is not score-partwise")
	ErrNoRootfile       = errors.New("musicxml: compressed archive has no score")
)

var zipMagic = []byte("PK\x03\x04")

// ReadFile reads an uncompressed (.xml, .musicxml) or compressed (.mxl)
// document.
func ReadFile(name string) (*Score, error) {
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "ReadFile")
	}
	return Parse(raw)
}

// Read parses a document from r.
func Read(r io.Reader) (*Score, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "Read")
	}
	return Parse(raw)
}

// Parse accepts the raw bytes of a plain or compressed document.
func Parse(raw []byte) (*Score, error) {
	id := uuid.NewSHA1(uuid.NameSpaceOID, raw)
	if bytes.HasPrefix(raw, zipMagic) {
		var err error
		raw, err = unpackMXL(raw)
		if err != nil {
			return nil, err
		}
	}

	content, err := toUTF8(raw)
	if err != nil {
		return nil, err
	}
	doc, err := xmldom.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "xmldom.Parse")
	}
	if doc.Root == nil || doc.Root.Name != "score-partwise" {
		return nil, ErrNotScorePartwise
	}
	return &Score{id: id, root: doc.Root}, nil
}

var declEncoding = regexp.MustCompile(`^(\s*<\?xml[^>]*encoding\s*=\s*["'])([^"']+)(["'])`)

// toUTF8 strips byte order marks and transcodes documents that declare a
// non UTF-8 encoding, rewriting the declaration to match.
func toUTF8(raw []byte) ([]byte, error) {
	hadBOM := bytes.HasPrefix(raw, []byte{0xfe, 0xff}) || bytes.HasPrefix(raw, []byte{0xff, 0xfe})
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return nil, errors.Wrap(err, "BOMOverride")
	}

	m := declEncoding.FindSubmatchIndex(out)
	if m == nil {
		return out, nil
	}
	label := strings.ToLower(string(out[m[4]:m[5]]))
	switch {
	case label == "utf-8" || label == "utf8":
		return out, nil
	case hadBOM && strings.HasPrefix(label, "utf-16"):
		// Already decoded by the BOM override.
	default:
		enc, _ := charset.Lookup(label)
		if enc == nil {
			return nil, errors.Errorf("musicxml: unsupported encoding %q", label)
		}
		out, err = enc.NewDecoder().Bytes(out)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", label)
		}
		m = declEncoding.FindSubmatchIndex(out)
		if m == nil {
			return out, nil
		}
	}

	fixed := make([]byte, 0, len(out))
	fixed = append(fixed, out[:m[4]]...)
	fixed = append(fixed, "UTF-8"...)
	fixed = append(fixed, out[m[5]:]...)
	return fixed, nil
}

// unpackMXL returns the score named by META-INF/container.xml, or the first
// MusicXML file outside META-INF when the container is missing.
func unpackMXL(raw []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, errors.Wrap(err, "zip.NewReader")
	}

	files := map[string]*zip.File{}
	for _, f := range zr.File {
		files[f.Name] = f
	}

	want := ""
	if c, ok := files["META-INF/container.xml"]; ok {
		content, err := readZipFile(c)
		if err != nil {
			return nil, err
		}
		doc, err := xmldom.Parse(bytes.NewReader(content))
		if err != nil {
			return nil, errors.Wrap(err, "container.xml")
		}
		if rf := doc.Root.GetChild("rootfiles"); rf != nil {
			for _, r := range rf.GetChildren("rootfile") {
				mt := r.GetAttributeValue("media-type")
				if mt == "" || strings.Contains(mt, "musicxml") {
					want = r.GetAttributeValue("full-path")
					break
				}
			}
		}
	}
	if want == "" {
		for _, f := range zr.File {
			ext := path.Ext(f.Name)
			if !strings.HasPrefix(f.Name, "META-INF/") && (ext == ".xml" || ext == ".musicxml") {
				want = f.Name
				break
			}
		}
	}

	f, ok := files[want]
	if !ok {
		return nil, ErrNoRootfile
	}
	return readZipFile(f)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", f.Name)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", f.Name)
	}
	return content, nil
}
