package export

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/natefinch/atomic"

	"dvkarchive/internal/config"
	"dvkarchive/internal/dvk"
)

// ErrLevel reports an unknown compression level name.
var ErrLevel = errors.New("unknown compression level")

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Options controls the output encoding.
type Options struct {
	Compress bool
	// Level is one of fastest, default, better or best. Empty means default.
	Level string
}

// OptionsFromConfig returns the options of the [export] section.
func OptionsFromConfig(cfg config.Export) Options {
	return Options{Compress: cfg.Compress, Level: cfg.Level}
}

// Source is an indexed set of records, such as an archive.Aggregator.
type Source interface {
	Size() int
	Get(int) *dvk.Record
}

// Document is one exported record with the location it was loaded from.
type Document struct {
	Path   string      `json:"path"`
	Record *dvk.Record `json:"record"`
}

func encoderLevel(name string) (zstd.EncoderLevel, error) {
	switch name {
	case "fastest":
		return zstd.SpeedFastest, nil
	case "", "default":
		return zstd.SpeedDefault, nil
	case "better":
		return zstd.SpeedBetterCompression, nil
	case "best":
		return zstd.SpeedBestCompression, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrLevel, name)
}

// Write encodes every record of src, in order, to w. It returns the number
// of records written.
func Write(w io.Writer, src Source, opts Options) (int, error) {
	out := w
	var enc *zstd.Encoder
	if opts.Compress {
		level, err := encoderLevel(opts.Level)
		if err != nil {
			return 0, err
		}
		enc, err = zstd.NewWriter(w, zstd.WithEncoderLevel(level))
		if err != nil {
			return 0, fmt.Errorf("create zstd writer: %w", err)
		}
		out = enc
	}

	n, err := encode(out, src)
	if enc != nil {
		if closeErr := enc.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("flush zstd writer: %w", closeErr)
		}
	}
	return n, err
}

func encode(w io.Writer, src Source) (int, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("["); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	count := 0
	for i := range src.Size() {
		r := src.Get(i)
		data, err := json.Marshal(Document{Path: r.Path(), Record: r})
		if err != nil {
			return count, fmt.Errorf("encode %s: %w", r.Path(), err)
		}
		if count > 0 {
			_ = bw.WriteByte(',')
		}
		_ = bw.WriteByte('\n')
		if _, err := bw.Write(data); err != nil {
			return count, fmt.Errorf("write export: %w", err)
		}
		count++
	}
	if _, err := bw.WriteString("\n]\n"); err != nil {
		return count, fmt.Errorf("write export: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return count, fmt.Errorf("write export: %w", err)
	}
	return count, nil
}

// WriteFile writes the export to path, replacing any existing file
// atomically.
func WriteFile(path string, src Source, opts Options) (int, error) {
	var buf bytes.Buffer
	n, err := Write(&buf, src, opts)
	if err != nil {
		return 0, err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return 0, fmt.Errorf("write export file: %w", err)
	}
	return n, nil
}

// Read decodes an export, detecting zstd compression from the stream
// header. Records keep the path they were exported from.
func Read(r io.Reader) ([]Document, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read export header: %w", err)
	}

	var in io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		defer dec.Close()
		in = dec
	}

	var docs []Document
	if err := json.NewDecoder(in).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	for _, doc := range docs {
		if doc.Record == nil {
			return nil, fmt.Errorf("decode export: %w: missing record for %q", dvk.ErrMalformed, doc.Path)
		}
		doc.Record.SetPath(doc.Path)
	}
	return docs, nil
}

// ReadFile decodes the export stored at path.
func ReadFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return Read(f)
}
