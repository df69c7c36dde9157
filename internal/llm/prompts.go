package llm

import "fmt"

const groundingPrompt = `شما دستیار هوشمند برای مدیریت باشگاه هستید. با لحن کوتاه و دقیق پاسخ بده.
سؤالات مربوط به اعضا، حضور و غیاب و پرداخت‌ها را با توجه به داده‌های زیر پاسخ بده. اگر پاسخ قطعی نیست، بهترین حدس را ارائه بده و شفاف بگو که مطمئن نیستی.
- اعضا: %d نفر.
- تعداد رکوردهای حضور و غیاب: %d.
- تعداد فاکتورها: %d.
اگر سؤال درباره آمار یا درآمد است، از این داده‌ها استفاده کن.`

// GroundingPrompt is the system preamble for free-form gym questions. It
// carries only aggregate counts, never member records.
func GroundingPrompt(members, attendance, invoices int) string {
	return fmt.Sprintf(groundingPrompt, members, attendance, invoices)
}
