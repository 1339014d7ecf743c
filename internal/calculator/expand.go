package calculator

import (
	"time"

	"occupancy/internal/model"
)

// ExpandInterval 把在场区间展开为整点时间桶（按时间升序）。
//
//   - 只有入场：入场所在整点一个桶。
//   - 入场 + 离场：从入场整点开始，每小时一个桶，桶时间必须严格早于离场时刻。
//     离场不晚于入场，或离场未到达入场后的下一个整点，结果为空。
//
// 桶数量由时长直接算出，不存在循环比较，离场早于入场时也能终止。
func ExpandInterval(iv model.AttendanceInterval) []model.Bucket {
	entry := iv.EntryTime()
	start := model.NewBucket(entry).Time()

	if !iv.HasExit {
		return []model.Bucket{model.Bucket(start)}
	}

	n := BucketCount(entry, iv.ExitTime())
	if n == 0 {
		return nil
	}

	out := make([]model.Bucket, n)
	for i := range out {
		out[i] = model.Bucket(start.Add(time.Duration(i) * time.Hour))
	}
	return out
}

// BucketCount 入场/离场之间的整点桶数量
func BucketCount(entry, exit time.Time) int {
	if !exit.After(entry) {
		return 0
	}
	start := model.NewBucket(entry).Time()
	if exit.Before(start.Add(time.Hour)) {
		return 0
	}
	span := exit.Sub(start)
	n := int(span / time.Hour)
	if span%time.Hour != 0 {
		n++
	}
	return n
}
