package intent

import (
	"fmt"
	"regexp"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
)

// rule binds an intent key to its classifier probes and its answer. Keeping
// both in one row means a key cannot be classified without being answerable.
type rule struct {
	key    domain.IntentKey
	probes []*regexp.Regexp
	answer func(Input) string
}

// matches is a conjunction: every probe must hit the normalized question.
func (r *rule) matches(normalized string) bool {
	for _, p := range r.probes {
		if !p.MatchString(normalized) {
			return false
		}
	}
	return len(r.probes) > 0
}

var (
	whoWord       = regexp.MustCompile(`کی|چه کسی|چه کسانی`)
	absenceWord   = regexp.MustCompile(`غایب|غیبت`)
	todayWord     = regexp.MustCompile(`امروز`)
	countWord     = regexp.MustCompile(`تعداد`)
	presenceWord  = regexp.MustCompile(`حاضر|ورود`)
	financeWord   = regexp.MustCompile(`وضعیت|مبلغ|پرداخت`)
	lastMonthWord = regexp.MustCompile(`ماه قبل|ماه گذشته|ماه پیش`)
	// Normalization drops the ZWNJ in "پرداخت‌های", so the plural may be
	// glued or spaced.
	paymentsWord = regexp.MustCompile(`پرداخت ?های?`)
	memberWord   = regexp.MustCompile(`عضو|کاربر|مشتری`)
)

// table is ordered: the first rule whose probes all match wins.
var table = []rule{
	{
		key:    domain.IntentAttendanceTodayAbsent,
		probes: []*regexp.Regexp{whoWord, absenceWord, todayWord},
		answer: absentToday,
	},
	{
		key:    domain.IntentAttendanceTodayPresentCount,
		probes: []*regexp.Regexp{countWord, presenceWord, todayWord},
		answer: presentTodayCount,
	},
	{
		key:    domain.IntentFinanceLastMonthStatus,
		probes: []*regexp.Regexp{financeWord, lastMonthWord},
		answer: lastMonthIncome,
	},
	{
		key:    domain.IntentFinanceMemberPayments,
		probes: []*regexp.Regexp{paymentsWord, memberWord},
		answer: memberPayments,
	},
}

var byKey = indexTable(table)

func indexTable(rules []rule) map[domain.IntentKey]*rule {
	idx := make(map[domain.IntentKey]*rule, len(rules))
	for i := range rules {
		r := &rules[i]
		if r.answer == nil || len(r.probes) == 0 {
			panic(fmt.Sprintf("intent %q must have probes and an answer", r.key))
		}
		if _, dup := idx[r.key]; dup {
			panic(fmt.Sprintf("intent %q registered twice", r.key))
		}
		idx[r.key] = r
	}
	return idx
}

// Keys lists the answerable intents in classification order.
func Keys() []domain.IntentKey {
	keys := make([]domain.IntentKey, 0, len(table))
	for i := range table {
		keys = append(keys, table[i].key)
	}
	return keys
}

func Known(key domain.IntentKey) bool {
	_, ok := byKey[key]
	return ok
}
