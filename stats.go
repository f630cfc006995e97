package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stateLeadCaptured is a funnel-only marker for chats that finished the flow.
const stateLeadCaptured State = "lead_captured"

var funnelOrder = []State{StateAwaitNiche, StateAwaitName, StateAwaitPhone, stateLeadCaptured}

type Stats struct {
	TotalLeads     int64
	DeliveredLeads int64
	TotalMessages  int64
	Funnel         map[State]int64
}

func stateLabel(s State) string {
	switch s {
	case StateAwaitNiche:
		return "ниша"
	case StateAwaitName:
		return "имя"
	case StateAwaitPhone:
		return "телефон"
	case stateLeadCaptured:
		return "заявка"
	default:
		return string(s)
	}
}

// formatStats renders counters and the funnel with conversion from the first step.
func formatStats(st Stats) string {
	caser := cases.Title(language.Russian)

	var b strings.Builder
	b.WriteString("📊 Статистика:\n\n")
	fmt.Fprintf(&b, "- Заявок: %d (доставлено: %d)\n", st.TotalLeads, st.DeliveredLeads)
	fmt.Fprintf(&b, "- Сообщений: %d\n\n", st.TotalMessages)
	b.WriteString("Воронка:\n")

	base := st.Funnel[funnelOrder[0]]
	for _, s := range funnelOrder {
		c := st.Funnel[s]
		fmt.Fprintf(&b, "- %s: %d (%d%%)\n", caser.String(stateLabel(s)), c, percent(c, base))
	}
	return strings.TrimRight(b.String(), "\n")
}

func percent(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (100 * a) / b
}
