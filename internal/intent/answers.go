package intent

import (
	"fmt"
	"strings"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	ReplyNotUnderstood   = "متوجه پرسش نشدم. لطفاً شفاف‌تر بیان کنید یا الگوی جدیدی بیفزایید."
	ReplyEveryonePresent = "امروز همه اعضای فعال حضور داشته‌اند."
	ReplyNameMember      = "لطفاً نام عضو را در پرسش ذکر کنید."
)

// Input is everything an answer may look at. Answers must not do I/O.
type Input struct {
	// Question is the raw operator question; answers normalize it themselves.
	Question string
	Snapshot *domain.Snapshot
	Now      time.Time
}

// Answer computes the deterministic reply for key. Unknown keys get
// ReplyNotUnderstood.
func Answer(key domain.IntentKey, in Input) string {
	r, ok := byKey[key]
	if !ok {
		return ReplyNotUnderstood
	}
	if in.Snapshot == nil {
		in.Snapshot = &domain.Snapshot{}
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	return r.answer(in)
}

// Window is an inclusive time range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Today spans local midnight to 23:59:59.999 in now's location.
func Today(now time.Time) Window {
	y, m, d := now.Date()
	loc := now.Location()
	return Window{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d, 23, 59, 59, 999_000_000, loc),
	}
}

// PreviousMonth spans the whole calendar month before now's month.
func PreviousMonth(now time.Time) Window {
	y, m, _ := now.Date()
	loc := now.Location()
	return Window{
		Start: time.Date(y, m-1, 1, 0, 0, 0, 0, loc),
		// Day 0 of this month is the last day of the previous one.
		End: time.Date(y, m, 0, 23, 59, 59, 999_000_000, loc),
	}
}

// FormatAmount renders a rial amount with Persian digits and grouping.
func FormatAmount(amount int64) string {
	return message.NewPrinter(language.Persian).Sprintf("%d", amount)
}

func presentIDs(logs []domain.AttendanceLog, w Window) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, l := range logs {
		if w.Contains(l.At) {
			ids[l.MemberID] = struct{}{}
		}
	}
	return ids
}

func activeMembers(members []domain.Member) []domain.Member {
	active := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.Active() {
			active = append(active, m)
		}
	}
	return active
}

func absentToday(in Input) string {
	present := presentIDs(in.Snapshot.Attendance, Today(in.Now))

	var names []string
	for _, m := range activeMembers(in.Snapshot.Members) {
		if _, ok := present[m.ID]; !ok {
			names = append(names, m.DisplayName())
		}
	}
	if len(names) == 0 {
		return ReplyEveryonePresent
	}
	return "غایبین امروز: " + strings.Join(names, "، ")
}

func presentTodayCount(in Input) string {
	active := activeMembers(in.Snapshot.Members)
	ids := presentIDs(in.Snapshot.Attendance, Today(in.Now))

	present := 0
	for _, m := range active {
		if _, ok := ids[m.ID]; ok {
			present++
		}
	}
	return fmt.Sprintf("تعداد حاضرین امروز %d نفر از %d عضو فعال است.", present, len(active))
}

func lastMonthIncome(in Input) string {
	w := PreviousMonth(in.Now)

	var total int64
	count := 0
	for _, inv := range in.Snapshot.Invoices {
		if w.Contains(inv.CreatedAt) {
			total += inv.Amount
			count++
		}
	}
	return fmt.Sprintf("درآمد ماه گذشته: %s ریال از %d پرداخت.", FormatAmount(total), count)
}

// memberPayments reports invoices for every member whose display name
// appears in the question.
func memberPayments(in Input) string {
	q := Normalize(in.Question)

	var lines []string
	for _, m := range in.Snapshot.Members {
		name := Normalize(m.DisplayName())
		if name == "" || !strings.Contains(q, name) {
			continue
		}

		var total int64
		count := 0
		for _, inv := range in.Snapshot.Invoices {
			if inv.MemberID == m.ID {
				total += inv.Amount
				count++
			}
		}
		if count == 0 {
			lines = append(lines, fmt.Sprintf("برای %s پرداختی ثبت نشده است.", m.DisplayName()))
			continue
		}
		lines = append(lines, fmt.Sprintf("پرداخت‌های %s: %d پرداخت به مبلغ %s ریال.",
			m.DisplayName(), count, FormatAmount(total)))
	}
	if len(lines) == 0 {
		return ReplyNameMember
	}
	return strings.Join(lines, "\n")
}
