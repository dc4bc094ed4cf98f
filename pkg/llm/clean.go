package llm

import (
	"strings"
)

// DefaultReasoningTags 默认剥离的推理过程标记，按开始/结束成对出现
var DefaultReasoningTags = []string{
	"<think>", "</think>",
	"<Think>", "</Think>",
	"<reasoning>", "</reasoning>",
	"<思考>", "</思考>",
}

// Clean 移除推理过程块，以及包裹整个回复的 Markdown 代码围栏
func Clean(content string, reasoningTags []string) string {
	result := content
	tags := append(append([]string{}, DefaultReasoningTags...), reasoningTags...)
	for i := 0; i+1 < len(tags); i += 2 {
		result = stripBlocks(result, tags[i], tags[i+1])
	}
	if result != content {
		result = strings.TrimLeft(result, "\r\n")
	}
	return stripFence(result)
}

func stripBlocks(content, start, end string) string {
	for {
		startIdx := strings.Index(content, start)
		if startIdx == -1 {
			return content
		}
		endIdx := strings.Index(content[startIdx:], end)
		if endIdx == -1 {
			return content
		}
		content = content[:startIdx] + content[startIdx+endIdx+len(end):]
	}
}

// stripFence 去掉 ```yaml ... ``` 形式的外层围栏，内部内容保持不变
func stripFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return content
	}
	firstNL := strings.IndexByte(trimmed, '\n')
	if firstNL == -1 {
		return content
	}
	inner := trimmed[firstNL+1 : len(trimmed)-3]
	return strings.TrimSuffix(inner, "\n")
}
