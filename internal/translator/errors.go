package translator

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrPromptTemplateMissing 找不到提示词模板，整个运行无法继续
	ErrPromptTemplateMissing = errors.New("prompt template missing")

	// ErrInvalidResponse 远程模型的响应中没有候选
	ErrInvalidResponse = errors.New("invalid response")

	// ErrRemoteCall 远程调用失败
	ErrRemoteCall = errors.New("remote call failed")

	// ErrForcedTermMissing 强制术语没有原样出现在译文中
	ErrForcedTermMissing = errors.New("forced term missing")
)

// 错误代码常量
const (
	ErrCodeConfig     = "CONFIG_ERROR"
	ErrCodeIO         = "IO_ERROR"
	ErrCodeStructure  = "STRUCTURE_ERROR"
	ErrCodeLLM        = "LLM_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// TranslationError 翻译错误
type TranslationError struct {
	Code    string // 错误代码
	Message string // 错误消息
	Cause   error  // 原因
	File    string // 发生错误的文件
	Chunk   int    // 发生错误的分块序号，从 1 开始，0 表示整个文件
}

// Error 实现error接口
func (e *TranslationError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	switch {
	case e.File != "" && e.Chunk > 0:
		msg += fmt.Sprintf(" (%s, chunk %d)", e.File, e.Chunk)
	case e.File != "":
		msg += fmt.Sprintf(" (%s)", e.File)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap 返回原因错误
func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// NewTranslationError 创建翻译错误
func NewTranslationError(code, message string, cause error) *TranslationError {
	return &TranslationError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError 包装错误，已经是 TranslationError 时补充文件信息
func WrapError(err error, code, message, file string) error {
	if err == nil {
		return nil
	}

	var te *TranslationError
	if errors.As(err, &te) {
		if te.File == "" {
			te.File = file
		}
		return te
	}

	return &TranslationError{
		Code:    code,
		Message: message,
		Cause:   err,
		File:    file,
	}
}

// ErrorCode 返回错误代码，非 TranslationError 时为空
func ErrorCode(err error) string {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// IsConfigError 配置错误会终止整个运行
func IsConfigError(err error) bool {
	return ErrorCode(err) == ErrCodeConfig
}
