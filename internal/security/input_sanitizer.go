// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザー入力のテキストフィールド（パッケージ名・説明など）
// からHTMLを除去し、格納データ経由のXSSを防止する。
// bluemondayライブラリのStrictPolicyにより、すべてのタグと属性を除去して
// プレーンテキストのみを通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はテキスト入力のサニタイズ機能のインターフェースを定義する。
type InputSanitizerService interface {
	// SanitizeText は入力からすべてのHTMLタグ・属性を除去し、
	// 前後の空白をトリムしたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(input string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// パッケージ名や説明はリッチテキストではないため、許可タグを一切持たない
// StrictPolicyを使用する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は入力からすべてのHTMLを除去したプレーンテキストを返す。
func (s *inputSanitizer) SanitizeText(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}

// compile-time interface check
var _ InputSanitizerService = (*inputSanitizer)(nil)
