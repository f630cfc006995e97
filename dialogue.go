package main

import "fmt"

// Step is the outcome of one dialogue transition.
type Step struct {
	Reply string
	// Entered is the state the conversation moved into, for funnel tracking.
	Entered State
	// Lead is set only when the phone step completes the flow.
	Lead *LeadRecord
}

// Dialogue drives the niche → name → phone flow. It never performs I/O; the
// caller persists the conversation and delivers the returned lead.
type Dialogue struct {
	clock Clock
}

func NewDialogue(clock Clock) *Dialogue {
	return &Dialogue{clock: clock}
}

// Start (re)enters the flow. Re-entry is allowed from any state and always
// discards whatever was collected so far.
func (d *Dialogue) Start(conv *Conversation, firstName string) Step {
	conv.reset()
	conv.State = StateAwaitNiche
	if firstName == "" {
		firstName = defaultFirstName
	}
	return Step{Reply: fmt.Sprintf(greetingText, firstName), Entered: StateAwaitNiche}
}

// Cancel abandons an active flow. In IDLE there is nothing to discard.
func (d *Dialogue) Cancel(conv *Conversation) Step {
	if !conv.Active() {
		return Step{Reply: noActiveText}
	}
	conv.reset()
	return Step{Reply: canceledText, Entered: StateIdle}
}

// Advance accepts text for the current step verbatim and moves to the next one.
func (d *Dialogue) Advance(conv *Conversation, text, username string) Step {
	if text == "" {
		return Step{}
	}

	conv.record(text)
	switch conv.State {
	case StateAwaitNiche:
		conv.State = StateAwaitName
		return Step{Reply: askNameText, Entered: StateAwaitName}

	case StateAwaitName:
		conv.State = StateAwaitPhone
		return Step{Reply: fmt.Sprintf(askPhoneText, conv.Name), Entered: StateAwaitPhone}

	case StateAwaitPhone:
		lead := newLeadRecord(*conv, username, d.clock.Now())
		conv.reset()
		return Step{Reply: confirmText, Entered: StateIdle, Lead: &lead}
	}

	return Step{}
}
