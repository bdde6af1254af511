package clinic

import (
	"strings"
	"time"

	"github.com/medibot/clinic-scheduler/internal/jtime"
)

// SettingsRange is the fixed key/value block of the settings sheet:
// keys in column A, values in column B.
const SettingsRange = "設定!A1:B19"

// Settings sheet keys. The sheets are authored in Japanese by the
// clinics themselves, so the keys are the visible Japanese labels.
const (
	keyClinicName      = "クリニック名"
	keyStartTime       = "診療開始時間"
	keyEndTime         = "診療終了時間"
	keyBreakStart      = "休憩開始時間"
	keyBreakEnd        = "休憩終了時間"
	keySlotDuration    = "予約枠の単位（分）"
	keyMaxAdvanceDays  = "予約可能日数"
	keyClosedFullDay   = "休診日（終日）"
	keyClosedMorning   = "休診日（午前）"
	keyClosedAfternoon = "休診日（午後）"
	keyClosedLegacy    = "休診日"
	keyMaxPerSlot      = "1枠あたりの最大予約数"
	keyUseCardNumber   = "診察券番号の利用"
	keyUseDoctorSelect = "医師指定の利用"
	keyDoctorList      = "医師リスト"
)

// Weekday is a closure-set member: the seven calendar weekdays plus 祝
// (public holiday) as a pseudo-weekday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	PublicHoliday
)

var weekdayGlyphs = map[rune]Weekday{
	'日': Sunday,
	'月': Monday,
	'火': Tuesday,
	'水': Wednesday,
	'木': Thursday,
	'金': Friday,
	'土': Saturday,
	'祝': PublicHoliday,
}

// FromTimeWeekday maps a time.Weekday onto the closure-set weekday.
func FromTimeWeekday(w time.Weekday) Weekday {
	return Weekday(int(w))
}

var weekdayLabels = [...]string{"日", "月", "火", "水", "木", "金", "土", "祝"}

func (w Weekday) String() string {
	if int(w) < len(weekdayLabels) {
		return weekdayLabels[w]
	}
	return "?"
}

// WeekdaySet is a set of closure-set weekdays.
type WeekdaySet map[Weekday]bool

func (s WeekdaySet) Has(w Weekday) bool { return s[w] }

// Labels returns the member glyphs in weekday order.
func (s WeekdaySet) Labels() []string {
	out := make([]string, 0, len(s))
	for w := Sunday; w <= PublicHoliday; w++ {
		if s[w] {
			out = append(out, w.String())
		}
	}
	return out
}

func (s WeekdaySet) add(w Weekday) {
	s[w] = true
}

// Configuration is the per-tenant clinic setup resolved from the
// settings sheet. Times are minutes from midnight.
type Configuration struct {
	ClinicName           string
	StartMinutes         int
	EndMinutes           int
	BreakStartMinutes    int
	BreakEndMinutes      int
	SlotDurationMinutes  int
	MaxAdvanceDays       int
	ClosedFullDay        WeekdaySet
	ClosedMorning        WeekdaySet
	ClosedAfternoon      WeekdaySet
	MaxPatientsPerSlot   int
	UsePatientCardNumber bool
	UseDoctorSelection   bool
	DoctorList           []string
}

// HasBreak reports whether a break window exists; equal bounds mean no
// break.
func (c Configuration) HasBreak() bool {
	return c.BreakStartMinutes < c.BreakEndMinutes
}

// Defaults is the hard-coded fallback configuration used when the
// settings sheet cannot be read: 09:00–18:00, 30-minute slots, no break,
// no closures.
func Defaults() Configuration {
	return Configuration{
		ClinicName:          "クリニック",
		StartMinutes:        9 * 60,
		EndMinutes:          18 * 60,
		SlotDurationMinutes: 30,
		MaxAdvanceDays:      30,
		ClosedFullDay:       WeekdaySet{},
		ClosedMorning:       WeekdaySet{},
		ClosedAfternoon:     WeekdaySet{},
		MaxPatientsPerSlot:  1,
	}
}

// parseSettings builds a Configuration from the raw key/value rows of
// the settings sheet. Malformed fields fall back per-field, never fail
// the whole parse.
func parseSettings(rows [][]string) Configuration {
	kv := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		kv[key] = strings.TrimSpace(row[1])
	}

	cfg := Defaults()

	if v, ok := kv[keyClinicName]; ok && v != "" {
		cfg.ClinicName = v
	}

	cfg.StartMinutes = clockOr(kv[keyStartTime], cfg.StartMinutes)
	cfg.EndMinutes = clockOr(kv[keyEndTime], cfg.EndMinutes)
	if cfg.StartMinutes >= cfg.EndMinutes {
		cfg.StartMinutes = Defaults().StartMinutes
		cfg.EndMinutes = Defaults().EndMinutes
	}

	cfg.BreakStartMinutes = clockOr(kv[keyBreakStart], 0)
	cfg.BreakEndMinutes = clockOr(kv[keyBreakEnd], 0)
	if cfg.BreakStartMinutes > cfg.BreakEndMinutes {
		cfg.BreakStartMinutes = 0
		cfg.BreakEndMinutes = 0
	}

	cfg.SlotDurationMinutes = positiveIntOr(kv[keySlotDuration], 30)
	cfg.MaxAdvanceDays = positiveIntOr(kv[keyMaxAdvanceDays], 30)
	cfg.MaxPatientsPerSlot = positiveIntOr(kv[keyMaxPerSlot], 1)

	cfg.UsePatientCardNumber = truthy(kv[keyUseCardNumber])
	cfg.UseDoctorSelection = truthy(kv[keyUseDoctorSelect])
	cfg.DoctorList = splitList(kv[keyDoctorList])

	full, hasFull := kv[keyClosedFullDay]
	morning, hasMorning := kv[keyClosedMorning]
	afternoon, hasAfternoon := kv[keyClosedAfternoon]

	if hasFull || hasMorning || hasAfternoon {
		cfg.ClosedFullDay = parseWeekdayList(full)
		cfg.ClosedMorning = parseWeekdayList(morning)
		cfg.ClosedAfternoon = parseWeekdayList(afternoon)
	} else if legacy, ok := kv[keyClosedLegacy]; ok {
		cfg.ClosedFullDay, cfg.ClosedMorning, cfg.ClosedAfternoon = parseLegacyClosedDays(legacy)
	}

	return cfg
}

// parseWeekdayList extracts weekdays from a free-text label list such as
// "水、日、祝" or "木の午前". Only the leading weekday character of each
// token counts; suffix text like の午後 is label decoration.
func parseWeekdayList(v string) WeekdaySet {
	set := WeekdaySet{}
	for _, token := range splitList(v) {
		if w, ok := leadingWeekday(token); ok {
			set.add(w)
		}
	}
	return set
}

// parseLegacyClosedDays handles the single combined 休診日 key used
// before the split keys existed: tokens containing 午前 or 午後 go to
// the matching half-day bucket, everything else is a full-day closure.
func parseLegacyClosedDays(v string) (full, morning, afternoon WeekdaySet) {
	full, morning, afternoon = WeekdaySet{}, WeekdaySet{}, WeekdaySet{}
	for _, token := range splitList(v) {
		w, ok := leadingWeekday(token)
		if !ok {
			continue
		}
		switch {
		case strings.Contains(token, "午後"):
			afternoon.add(w)
		case strings.Contains(token, "午前"):
			morning.add(w)
		default:
			full.add(w)
		}
	}
	return full, morning, afternoon
}

func leadingWeekday(token string) (Weekday, bool) {
	for _, r := range token {
		w, ok := weekdayGlyphs[r]
		return w, ok
	}
	return 0, false
}

var truthyLiterals = map[string]bool{
	"あり":   true,
	"有り":   true,
	"はい":   true,
	"する":   true,
	"true": true,
	"TRUE": true,
	"yes":  true,
	"YES":  true,
}

func truthy(v string) bool {
	return truthyLiterals[strings.TrimSpace(v)]
}

func clockOr(v string, def int) int {
	if v == "" {
		return def
	}
	minutes, err := jtime.ParseClock(v)
	if err != nil {
		return def
	}
	return minutes
}

func positiveIntOr(v string, def int) int {
	if v == "" {
		return def
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return def
	}
	return n
}

func splitList(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == '、' || r == ',' || r == '，' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
