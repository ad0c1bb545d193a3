package schedule

import "testing"

func TestCanonicalDay(t *testing.T) {
	cases := map[string]string{
		"MON":   "MON",
		"mon":   "MON",
		" tue ": "TUE",
		"SUN":   "SUN",
		"FOO":   "",
		"":      "",
	}
	for in, want := range cases {
		if got := CanonicalDay(in); got != want {
			t.Errorf("CanonicalDay(%q) = %q, 期望 %q", in, got, want)
		}
	}
}

func TestDayIndexRoundTrip(t *testing.T) {
	for i, d := range Days {
		if DayIndex(d) != i {
			t.Errorf("DayIndex(%q) 应为 %d", d, i)
		}
		if DayAt(i) != d {
			t.Errorf("DayAt(%d) 应为 %q", i, d)
		}
	}
	if DayIndex("XXX") != -1 {
		t.Error("非法星期应返回 -1")
	}
	if DayAt(-3) != "MON" || DayAt(9) != "SUN" {
		t.Error("DayAt 下标应钳制到 [0,6]")
	}
}

func TestNormalizeValid(t *testing.T) {
	got := Normalize(Slot{Day: "mon", Start: "09:00", End: "11:00", Room: " SC1-101 "})
	want := Slot{Day: "MON", Start: "09:00", End: "11:00", Room: "SC1-101"}
	if got != want {
		t.Fatalf("期望 %+v, 实际 %+v", want, got)
	}
}

// TestNormalizeCollapse 折叠不变量：部分缺失的元组要么补全为完整
// 元组，要么整组归零，不允许"半排课"逃出 Normalize。
func TestNormalizeCollapse(t *testing.T) {
	// 星期非法：整组清空（含教室）
	if got := Normalize(Slot{Day: "XYZ", Start: "09:00", End: "11:00", Room: "A"}); !got.IsZero() {
		t.Errorf("非法星期应整组清空, 实际 %+v", got)
	}
	// 星期缺失
	if got := Normalize(Slot{Start: "09:00", End: "11:00"}); !got.IsZero() {
		t.Errorf("星期缺失应整组清空, 实际 %+v", got)
	}
	// 有星期无时间
	if got := Normalize(Slot{Day: "WED", Room: "B"}); !got.IsZero() {
		t.Errorf("起止均缺失应整组清空, 实际 %+v", got)
	}
	// 零值
	if got := Normalize(Slot{}); !got.IsZero() {
		t.Errorf("零值应保持零值, 实际 %+v", got)
	}
}

// TestNormalizeDerive 起止仅有其一时按最短时长补全另一端。
func TestNormalizeDerive(t *testing.T) {
	got := Normalize(Slot{Day: "TUE", Start: "09:00"})
	if got.End != "09:30" {
		t.Errorf("仅有起点时终点应为 09:30, 实际 %q", got.End)
	}
	got = Normalize(Slot{Day: "TUE", End: "09:00"})
	if got.Start != "08:30" {
		t.Errorf("仅有终点时起点应为 08:30, 实际 %q", got.Start)
	}
	// 起点贴近窗口上沿：终点钳到上沿后整体回退
	got = Normalize(Slot{Day: "FRI", Start: "18:50"})
	if got.Start != "18:30" || got.End != "19:00" {
		t.Errorf("贴近上沿应回退为 18:30-19:00, 实际 %q-%q", got.Start, got.End)
	}
}

func TestNormalizeMinDuration(t *testing.T) {
	// 终点早于起点+30分钟：后推终点
	got := Normalize(Slot{Day: "MON", Start: "10:00", End: "10:10"})
	if got.Start != "10:00" || got.End != "10:30" {
		t.Errorf("终点应后推到 10:30, 实际 %q-%q", got.Start, got.End)
	}
	// 后推触顶：终点钳到 19:00，起点回退
	got = Normalize(Slot{Day: "MON", Start: "18:50", End: "18:55"})
	if got.Start != "18:30" || got.End != "19:00" {
		t.Errorf("触顶应为 18:30-19:00, 实际 %q-%q", got.Start, got.End)
	}
}

func TestNormalizeWindowClamp(t *testing.T) {
	got := Normalize(Slot{Day: "SAT", Start: "05:00", End: "21:00"})
	if got.Start != "07:00" || got.End != "19:00" {
		t.Errorf("起止应钳入时间窗, 实际 %q-%q", got.Start, got.End)
	}
	// 非法时间视为缺失
	got = Normalize(Slot{Day: "SAT", Start: "bad", End: "10:00"})
	if got.Start != "09:30" || got.End != "10:00" {
		t.Errorf("非法起点应按缺失补全, 实际 %q-%q", got.Start, got.End)
	}
}

// TestNormalizeIdempotence 归一化幂等：Normalize(Normalize(x)) == Normalize(x)。
func TestNormalizeIdempotence(t *testing.T) {
	inputs := []Slot{
		{},
		{Day: "mon", Start: "09:00", End: "11:00", Room: " a "},
		{Day: "TUE", Start: "09:00"},
		{Day: "WED", End: "07:10"},
		{Day: "XYZ", Start: "09:00", End: "10:00"},
		{Day: "FRI", Start: "18:50", End: "18:55"},
		{Day: "SUN", Start: "05:00", End: "23:00"},
		{Day: "THU", Room: "only-room"},
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("输入 %+v: 一次 %+v 与二次 %+v 不一致", in, once, twice)
		}
	}
}

func TestSlotScheduled(t *testing.T) {
	if (Slot{}).Scheduled() {
		t.Error("零值不应视为已排课")
	}
	if !(Slot{Day: "MON", Start: "09:00", End: "11:00"}).Scheduled() {
		t.Error("完整元组应视为已排课")
	}
}
