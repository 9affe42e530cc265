package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

// extractXLS 提取旧版 Excel（.xls）文本
// 每个工作表逐行读取，单元格以逗号连接
func extractXLS(data []byte) (string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", fmt.Errorf("failed to open xls: %w", err)
	}

	var sb strings.Builder
	for i := 0; i < workbook.NumSheets(); i++ {
		sheet := workbook.GetSheet(i)
		if sheet == nil {
			continue
		}

		for j := 0; j <= int(sheet.MaxRow); j++ {
			row := sheet.Row(j)
			if row == nil {
				continue
			}

			var cells []string
			for k := row.FirstCol(); k <= row.LastCol(); k++ {
				cells = append(cells, row.Col(k))
			}
			if len(cells) > 0 {
				sb.WriteString(strings.Join(cells, ", "))
				sb.WriteString("\n")
			}
		}
	}

	return sb.String(), nil
}
