package grid

import (
	"math"
	"testing"
)

// TestQuantizeIdempotence 量化幂等：对窗内任意分钟值 m，
// TimeToMinutes(MinutesToTime(m)) 与 m 的最近 15 分钟取整一致。
func TestQuantizeIdempotence(t *testing.T) {
	for m := 0; m <= WindowMinutes; m++ {
		want := int(math.Round(float64(m)/QuantumMinutes)) * QuantumMinutes
		if want > WindowMinutes {
			want = WindowMinutes
		}
		got := TimeToMinutes(MinutesToTime(m))
		if got != want {
			t.Fatalf("m=%d: 期望 %d, 实际 %d", m, want, got)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"07:00", 420, true},
		{"19:00", 1140, true},
		{"09:05", 545, true},
		{" 12:30 ", 750, true},
		{"", 0, false},
		{"9", 0, false},
		{"25:00", 0, false},
		{"12:60", 0, false},
		{"ab:cd", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseClock(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseClock(%q) = (%d, %v), 期望 (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTimeToOffset(t *testing.T) {
	if got := TimeToOffset("09:00"); got != 2 {
		t.Errorf("09:00 偏移应为 2, 实际 %v", got)
	}
	if got := TimeToOffset("07:30"); got != 0.5 {
		t.Errorf("07:30 偏移应为 0.5, 实际 %v", got)
	}
	// 空串与非法输入返回哨兵值 0
	if got := TimeToOffset(""); got != 0 {
		t.Errorf("空串应返回 0, 实际 %v", got)
	}
	if got := TimeToOffset("bad"); got != 0 {
		t.Errorf("非法输入应返回 0, 实际 %v", got)
	}
}

// TestOffsetToTimeClamping OffsetToTime 的输出永不越出时间窗。
func TestOffsetToTimeClamping(t *testing.T) {
	cases := map[float64]string{
		-5:    "07:00",
		0:     "07:00",
		2.1:   "09:00", // 量化到最近刻度
		2.2:   "09:15",
		11.99: "19:00",
		12:    "19:00",
		100:   "19:00",
	}
	for in, want := range cases {
		if got := OffsetToTime(in); got != want {
			t.Errorf("OffsetToTime(%v) = %q, 期望 %q", in, got, want)
		}
	}
}

func TestTimeToMinutesClamping(t *testing.T) {
	if got := TimeToMinutes("06:00"); got != 0 {
		t.Errorf("窗前时间应钳到 0, 实际 %d", got)
	}
	if got := TimeToMinutes("21:00"); got != WindowMinutes {
		t.Errorf("窗后时间应钳到 %d, 实际 %d", WindowMinutes, got)
	}
	if got := TimeToMinutes("10:45"); got != 225 {
		t.Errorf("10:45 应为 225, 实际 %d", got)
	}
}

func TestQuantize(t *testing.T) {
	cases := map[float64]float64{
		2.0:  2.0,
		2.1:  2.0,
		2.13: 2.25,
		2.3:  2.25,
		2.4:  2.5,
	}
	for in, want := range cases {
		if got := Quantize(in); got != want {
			t.Errorf("Quantize(%v) = %v, 期望 %v", in, got, want)
		}
	}
}

func TestPixelDeltas(t *testing.T) {
	if got := DeltaHours(140, 70); got != 2 {
		t.Errorf("140px / 列宽70px 应为 2 小时, 实际 %v", got)
	}
	if got := DeltaHours(10, 0); got != 0 {
		t.Errorf("列宽为 0 时应返回 0, 实际 %v", got)
	}
	if got := DeltaDays(80, 70); got != 1 {
		t.Errorf("80px / 70px 行高应取整为 1 天, 实际 %d", got)
	}
	if got := DeltaDays(-34, 70); got != 0 {
		t.Errorf("-34px 不足半行应为 0 天, 实际 %d", got)
	}
	if got := DeltaDays(-36, 70); got != -1 {
		t.Errorf("-36px 过半行应为 -1 天, 实际 %d", got)
	}
}

func TestFixedGeometry(t *testing.T) {
	g := FixedGeometry{Column: 70, Row: 70}
	if g.ColumnWidth() != 70 || g.RowHeight() != 70 {
		t.Fatal("FixedGeometry 应原样返回固定尺寸")
	}
}
