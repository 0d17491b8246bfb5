package utils

import "fmt"

// FormatPence 将便士金额格式化为英镑字符串，如 1050 -> "£10.50"
func FormatPence(pence int64) string {
	return fmt.Sprintf("£%d.%02d", pence/100, pence%100)
}
