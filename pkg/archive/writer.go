package archive

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Writer builds a module archive. Entries are written as they are added;
// Close writes the file table and header and must be called for the
// archive to be readable.
type Writer struct {
	file    *os.File
	entries []Entry
	offset  uint32
}

// Create creates a new archive at the given path, truncating any
// existing file.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	// Reserve room for the header; it is written on Close.
	if _, err := file.Seek(headerSize, io.SeekStart); err != nil {
		file.Close()
		return nil, err
	}

	return &Writer{file: file, offset: headerSize}, nil
}

// Add appends one file to the archive. Entries that do not shrink under
// compression are stored raw.
func (w *Writer) Add(name string, data []byte) error {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	payload := compressed.Bytes()
	if len(payload) >= len(data) {
		payload = data
	}

	if _, err := w.file.Write(payload); err != nil {
		return fmt.Errorf("writing entry %s: %w", name, err)
	}

	w.entries = append(w.entries, Entry{
		Name:             normalizePath(name),
		CompressedSize:   uint32(len(payload)),
		UncompressedSize: uint32(len(data)),
		Offset:           w.offset,
	})
	w.offset += uint32(len(payload))
	return nil
}

// Close writes the file table and header, then closes the file.
func (w *Writer) Close() error {
	var table bytes.Buffer
	for _, e := range w.entries {
		table.WriteString(e.Name)
		table.WriteByte(0)
		binary.Write(&table, binary.LittleEndian, e.CompressedSize)
		binary.Write(&table, binary.LittleEndian, e.UncompressedSize)
		binary.Write(&table, binary.LittleEndian, e.Offset)
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(table.Bytes()); err != nil {
		w.file.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		w.file.Close()
		return err
	}

	if err := binary.Write(w.file, binary.LittleEndian, uint32(compressed.Len())); err != nil {
		w.file.Close()
		return err
	}
	if err := binary.Write(w.file, binary.LittleEndian, uint32(table.Len())); err != nil {
		w.file.Close()
		return err
	}
	if _, err := w.file.Write(compressed.Bytes()); err != nil {
		w.file.Close()
		return err
	}

	header := Header{
		Version:     archiveVersion,
		FileCount:   uint32(len(w.entries)),
		TableOffset: w.offset,
	}
	copy(header.Magic[:], archiveMagic)

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		w.file.Close()
		return err
	}
	if err := binary.Write(w.file, binary.LittleEndian, &header); err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}
