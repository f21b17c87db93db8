// Package bill は会計（チェックアウト）管理のドメインロジックを提供する。
package bill

// EditableWindow は編集・削除可能な会計の件数。
// ユーザーの全会計を作成日時降順に並べたとき、先頭からこの件数までが
// 変更可能な「編集可能ウィンドウ」となる。
const EditableWindow = 15

// IsEditable は順位rank（0始まり、作成日時降順）の会計が編集可能かどうかを返す。
//
// 会計の順位は新しい会計が作成されるたびに変化するため、UI側の表示制御は
// あくまで参考情報であり、変更系の操作では必ずサーバー側で順位を
// 取得し直してこの判定を再評価すること。
func IsEditable(rank int) bool {
	return rank >= 0 && rank < EditableWindow
}
