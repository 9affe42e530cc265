package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// extractPlainText 提取纯文本内容
func extractPlainText(data []byte) (string, error) {
	return string(data), nil
}

// extractCSV 提取 CSV 内容
// 每行单元格以逗号连接，行以换行连接，保持表格的可读性
func extractCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // 允许不等长的行

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse csv: %w", err)
	}

	var sb strings.Builder
	for _, record := range records {
		sb.WriteString(strings.Join(record, ", "))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
