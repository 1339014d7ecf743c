package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"occupancy/internal/model"
)

// ErrInvalidReferenceMonth 基准年月格式错误（整次运行中止）
var ErrInvalidReferenceMonth = errors.New("invalid reference month, expected YYYY-MM")

var reReferenceMonth = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ParseReferenceMonth 严格解析 YYYY-MM，前后空白同样视为格式错误
func ParseReferenceMonth(text string) (model.ReferenceMonth, error) {
	if !reReferenceMonth.MatchString(text) {
		return model.ReferenceMonth{}, fmt.Errorf("%w: %q", ErrInvalidReferenceMonth, text)
	}
	year, _ := strconv.Atoi(text[:4])
	month, _ := strconv.Atoi(text[5:])
	return model.ReferenceMonth{Year: year, Month: time.Month(month)}, nil
}
