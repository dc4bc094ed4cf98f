// Package validator 比较原文和译文的键集合与游戏标记，报告结构性差异
package validator

import "strings"

type pair struct {
	key   string
	value string
}

// Validate 比较原文与译文，返回按顺序排列的问题列表：
// 先是键集合问题，然后按原文键顺序列出每个键的标记问题
func Validate(original, translated string) []Problem {
	origPairs := splitPairs(original)
	transPairs := splitPairs(translated)

	transValues := make(map[string]string, len(transPairs))
	for _, p := range transPairs {
		transValues[p.key] = p.value
	}
	origKeys := make(map[string]struct{}, len(origPairs))
	for _, p := range origPairs {
		origKeys[p.key] = struct{}{}
	}

	var problems []Problem
	for _, p := range origPairs {
		if _, ok := transValues[p.key]; !ok {
			problems = append(problems, Problem{Kind: MissingKey, Key: p.key})
		}
	}
	for _, p := range transPairs {
		if _, ok := origKeys[p.key]; !ok {
			problems = append(problems, Problem{Kind: ExtraKey, Key: p.key})
		}
	}

	for _, p := range origPairs {
		value, ok := transValues[p.key]
		if !ok {
			continue
		}
		for _, class := range Classes() {
			problems = append(problems, comparePatterns(p.key, class, p.value, value)...)
		}
	}
	return problems
}

// splitPairs 按每行第一个冒号拆分键值对，同一个键只保留第一次出现
func splitPairs(text string) []pair {
	var pairs []pair
	seen := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, pair{key: key, value: strings.TrimSpace(value)})
	}
	return pairs
}

func comparePatterns(key string, class Class, original, translated string) []Problem {
	origTokens := ExtractTokens(class, original)
	transTokens := ExtractTokens(class, translated)

	var problems []Problem
	if len(origTokens) != len(transTokens) {
		present := make(map[string]struct{}, len(transTokens))
		for _, tok := range transTokens {
			present[tok] = struct{}{}
		}

		missing := make(map[string]struct{})
		for _, tok := range origTokens {
			if _, ok := present[tok]; ok {
				continue
			}
			if _, reported := missing[tok]; !reported {
				missing[tok] = struct{}{}
				problems = append(problems, Problem{Kind: PatternNotFound, Key: key, Class: class, Original: tok})
			}
		}

		kept := origTokens[:0:0]
		for _, tok := range origTokens {
			if _, gone := missing[tok]; !gone {
				kept = append(kept, tok)
			}
		}
		origTokens = kept
	}

	for i, tok := range origTokens {
		if i >= len(transTokens) {
			break
		}
		if tok != transTokens[i] {
			problems = append(problems, Problem{
				Kind:       PatternMismatch,
				Key:        key,
				Class:      class,
				Original:   tok,
				Translated: transTokens[i],
			})
		}
	}
	return problems
}
