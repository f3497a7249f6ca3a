package lending

import "fmt"

// Operation は貸出レコード保存時の操作種別。
// 不明なタグは暗黙のupdate扱いにせず、Parse時点で弾く。
type Operation string

const (
	// 新規貸出（チェックアウト）
	OpOut Operation = "out"
	// 貸出延長（1回のみ、+4週間）
	OpExtend Operation = "extend"
	// 返却・訂正などの単純保存
	OpReturn Operation = "return"
)

func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpOut, OpExtend, OpReturn:
		return Operation(s), nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

func (op Operation) Valid() bool {
	switch op {
	case OpOut, OpExtend, OpReturn:
		return true
	}
	return false
}
