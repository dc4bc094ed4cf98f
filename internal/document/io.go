package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HasBOM 内容是否以 UTF-8 BOM 开头
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, utf8BOM)
}

// Decode 把文件内容解码为文本并去掉 BOM；带 UTF-16 BOM 的文件会被转为 UTF-8
func Decode(data []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// ReadFile 读取文本文件，结果不含 BOM
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return text, nil
}

// WriteFile 写出带 UTF-8 BOM 的本地化文件，游戏引擎要求该 BOM
func WriteFile(path, text string) error {
	return writeAtomic(path, text, true)
}

// WritePlainFile 写出文件，bom 决定是否加 BOM
func WritePlainFile(path, text string, bom bool) error {
	return writeAtomic(path, text, bom)
}

// writeAtomic 先写同目录临时文件再改名，避免留下写了一半的文件
func writeAtomic(path, text string, bom bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	data := []byte(strings.TrimPrefix(text, "\ufeff"))
	if bom {
		encoded, _, err := transform.Bytes(unicode.UTF8BOM.NewEncoder(), data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		data = encoded
	}

	tmp, err := os.CreateTemp(dir, ".pmt-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
