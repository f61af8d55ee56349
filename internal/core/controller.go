package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/models"
	"github.com/Rorical/diabeguide/internal/typing"
	"github.com/Rorical/diabeguide/pkg/logger"
)

const (
	WelcomeMessage         = "Hello! How can I help you with your diabetes management?"
	ClearedMessage         = "Chat cleared. How can I help you with your diabetes management?"
	CancelledMessage       = "Request cancelled."
	ConnectionErrorMessage = "Error: Could not connect to the chatbot."
	NoHistoryMessage       = "No chat history found."
	HistoryFailedAlert     = "Failed to load chat history. Please try again."
	ClearConfirmQuestion   = "Are you sure you want to clear the chat?"
)

// Renderer turns message text into display output.
type Renderer interface {
	Render(text string, role models.Role) string
	PlainText(markdown string) string
}

// Effect is work the controller asks its host to perform.
type Effect interface {
	effect()
}

// IssueChat posts Message under RequestID.
type IssueChat struct {
	RequestID string
	Message   string
}

// CancelChat aborts the request RequestID.
type CancelChat struct {
	RequestID string
}

// ScheduleTick delivers Tick(Generation) after Delay.
type ScheduleTick struct {
	Generation uint64
	Delay      time.Duration
}

// ClearSession deletes the server-side session.
type ClearSession struct{}

func (IssueChat) effect()    {}
func (CancelChat) effect()   {}
func (ScheduleTick) effect() {}
func (ClearSession) effect() {}

// RequestHandle identifies the chat request in flight.
type RequestHandle struct {
	ID      string
	Message string
	Started time.Time
}

// ChatResult is the outcome of a chat request.
type ChatResult struct {
	RequestID    string
	Reply        string
	ErrorPayload string
	Err          error
}

type BlockKind int

const (
	MessageBlock BlockKind = iota
	TypingBlock
	LoadingBlock
)

// Block is one visual element of the conversation, top to bottom.
type Block struct {
	Kind    BlockKind
	Role    models.Role
	Content string
}

type ControlMode int

const (
	ControlsHidden ControlMode = iota
	ControlsWaiting
	ControlsTyping
)

// Controls is the state of the pause/resume and stop buttons.
type Controls struct {
	Mode       ControlMode
	PauseIcon  string
	PauseTitle string
	StopLabel  string
}

func (c Controls) Visible() bool {
	return c.Mode != ControlsHidden
}

type entry struct {
	msg    models.Message
	output string
}

// Controller owns the conversation log, the request in flight and the typing
// animation. It is driven from a single goroutine and never blocks; I/O and
// timers come back as Effects.
type Controller struct {
	renderer   Renderer
	log        []entry
	loading    bool
	request    *RequestHandle
	animator   typing.Animator
	typingIdx  int
	autoScroll bool
	newID      func() string
}

func NewController(renderer Renderer) *Controller {
	return &Controller{
		renderer:   renderer,
		typingIdx:  -1,
		autoScroll: true,
		newID:      uuid.NewString,
	}
}

// Send posts a user message. Blank input is ignored. A request still in
// flight is cancelled first and a running animation is finalized.
func (c *Controller) Send(message string) []Effect {
	if strings.TrimSpace(message) == "" {
		return nil
	}

	var effects []Effect
	c.StopGenerating()
	if c.request != nil {
		effects = append(effects, CancelChat{RequestID: c.request.ID})
		c.dropRequest()
		c.appendMessage(models.Bot, CancelledMessage)
	}

	c.appendMessage(models.User, message)
	c.request = &RequestHandle{ID: c.newID(), Message: message, Started: time.Now()}
	c.loading = true
	c.autoScroll = true

	logger.WithFields(logrus.Fields{"request_id": c.request.ID}).Debug("chat request issued")
	return append(effects, IssueChat{RequestID: c.request.ID, Message: message})
}

// Resolve applies the outcome of a chat request. Results for any request but
// the current one are dropped.
func (c *Controller) Resolve(res ChatResult) []Effect {
	if c.request == nil || res.RequestID != c.request.ID {
		logger.WithFields(logrus.Fields{"request_id": res.RequestID}).Debug("dropping stale chat result")
		return nil
	}
	elapsed := time.Since(c.request.Started)
	c.dropRequest()

	log := logger.WithFields(logrus.Fields{"request_id": res.RequestID, "elapsed": elapsed})
	switch {
	case res.Err != nil && api.IsCancelled(res.Err):
		c.appendMessage(models.Bot, CancelledMessage)
		return nil
	case res.Err != nil:
		log.WithError(res.Err).Warn("chat request failed")
		return c.startTyping(ConnectionErrorMessage)
	case res.Reply != "":
		return c.startTyping(res.Reply)
	case res.ErrorPayload != "":
		log.WithField("error", res.ErrorPayload).Info("chat returned an error payload")
		return c.startTyping("Error: " + res.ErrorPayload)
	}
	log.Warn("chat result carried nothing to show")
	return c.startTyping(ConnectionErrorMessage)
}

// Cancel aborts the request in flight, or finishes the running animation.
func (c *Controller) Cancel() []Effect {
	if c.request != nil {
		id := c.request.ID
		c.dropRequest()
		c.appendMessage(models.Bot, CancelledMessage)
		return []Effect{CancelChat{RequestID: id}}
	}
	c.StopGenerating()
	return nil
}

// PauseResume cancels while waiting and toggles pause while typing.
func (c *Controller) PauseResume() []Effect {
	if c.request != nil {
		return c.Cancel()
	}
	if !c.animator.Active() {
		return nil
	}
	paused, gen := c.animator.TogglePause()
	if paused {
		return nil
	}
	return []Effect{ScheduleTick{Generation: gen}}
}

// Tick advances the animation whose ticks carry generation.
func (c *Controller) Tick(generation uint64) []Effect {
	step := c.animator.Tick(generation)
	if step.Done {
		c.finalizeTyping(step.Final)
		return nil
	}
	if step.Reschedule {
		return []Effect{ScheduleTick{Generation: generation, Delay: step.Delay}}
	}
	return nil
}

// StopGenerating ends the running animation and shows its full rendering.
func (c *Controller) StopGenerating() {
	if state, ok := c.animator.Stop(); ok {
		c.finalizeTyping(state.FullRendered)
	}
}

func (c *Controller) startTyping(text string) []Effect {
	c.StopGenerating()

	full := c.renderer.Render(text, models.Bot)
	chunks := typing.Segment(c.renderer.PlainText(text))
	gen := c.animator.Start(chunks, full)

	c.log = append(c.log, entry{msg: models.Message{Role: models.Bot, Text: text}})
	c.typingIdx = len(c.log) - 1

	// The first chunk shows right away.
	return c.Tick(gen)
}

func (c *Controller) finalizeTyping(final string) {
	if c.typingIdx < 0 || c.typingIdx >= len(c.log) {
		c.typingIdx = -1
		return
	}
	e := &c.log[c.typingIdx]
	e.msg.Rendered = true
	e.output = final
	c.typingIdx = -1
}

func (c *Controller) appendMessage(role models.Role, text string) {
	c.log = append(c.log, entry{
		msg:    models.Message{Role: role, Text: text, Rendered: true},
		output: c.renderer.Render(text, role),
	})
}

func (c *Controller) dropRequest() {
	c.request = nil
	c.loading = false
}

// ShowWelcome greets the user when the log is empty.
func (c *Controller) ShowWelcome() {
	if len(c.log) == 0 {
		c.appendMessage(models.Bot, WelcomeMessage)
	}
}

// LoadSession replaces the log with the current server session. A failed or
// empty session leaves the welcome message.
func (c *Controller) LoadSession(entries []models.HistoryEntry, err error) {
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err}).Warn("failed to load current session")
		c.ShowWelcome()
		return
	}
	if !c.replaceLog(entries) {
		c.ShowWelcome()
	}
}

// LoadArchive replaces the log with the full chat archive. A non-empty
// return value is an alert for the user.
func (c *Controller) LoadArchive(entries []models.HistoryEntry, err error) string {
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err}).Warn("failed to load chat history")
		if api.ErrorTypeOf(err) == api.ErrTypeStatus {
			return HistoryFailedAlert
		}
		return "Error loading chat history: " + err.Error()
	}

	c.StopGenerating()
	if !c.replaceLog(entries) {
		c.log = nil
		c.appendMessage(models.Bot, NoHistoryMessage)
	}
	c.autoScroll = true
	return ""
}

// replaceLog swaps in the valid entries wholesale. It reports false, and
// changes nothing, when none are valid.
func (c *Controller) replaceLog(entries []models.HistoryEntry) bool {
	valid := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Valid() {
			valid = append(valid, e)
		} else {
			logger.Debugf("skipping malformed history entry %+v", e)
		}
	}
	if len(valid) == 0 {
		return false
	}

	c.StopGenerating()
	c.log = make([]entry, 0, len(valid))
	for _, e := range valid {
		role, _ := models.ParseRole(e.Role)
		c.appendMessage(role, e.Message)
	}
	return true
}

// Clear wipes the local conversation and asks for the server session to be
// deleted. The request in flight is cancelled without a notice.
func (c *Controller) Clear() []Effect {
	c.StopGenerating()

	var effects []Effect
	if c.request != nil {
		effects = append(effects, CancelChat{RequestID: c.request.ID})
		c.dropRequest()
	}
	c.log = nil
	c.autoScroll = true
	return append(effects, ClearSession{})
}

// Cleared applies the server's answer to Clear. A transport failure is
// returned as an alert; a refused delete is only logged.
func (c *Controller) Cleared(err error) string {
	if err != nil {
		switch api.ErrorTypeOf(err) {
		case api.ErrTypeStatus, api.ErrTypeInvalidResponse:
			logger.WithFields(logrus.Fields{"error": err}).Error("server refused to clear chat")
		default:
			logger.WithFields(logrus.Fields{"error": err}).Error("failed to clear chat")
			return "Error clearing chat: " + err.Error()
		}
	}
	c.appendMessage(models.Bot, ClearedMessage)
	return ""
}

// HasMessage reports whether a message with the same trimmed text is in the log.
func (c *Controller) HasMessage(text string) bool {
	text = strings.TrimSpace(text)
	for _, e := range c.log {
		if strings.TrimSpace(e.msg.Text) == text {
			return true
		}
	}
	return false
}

// SubmitEmergency sends message unless the conversation already holds it.
func (c *Controller) SubmitEmergency(message string) []Effect {
	if strings.TrimSpace(message) == "" || c.HasMessage(message) {
		return nil
	}
	return c.Send(message)
}

// Blocks lists what to display, top to bottom.
func (c *Controller) Blocks() []Block {
	blocks := make([]Block, 0, len(c.log)+1)
	state, typing := c.animator.State()
	for i, e := range c.log {
		if i == c.typingIdx && typing {
			blocks = append(blocks, Block{Kind: TypingBlock, Role: e.msg.Role, Content: state.Displayed})
			continue
		}
		blocks = append(blocks, Block{Kind: MessageBlock, Role: e.msg.Role, Content: e.output})
	}
	if c.loading {
		blocks = append(blocks, Block{Kind: LoadingBlock, Role: models.Bot})
	}
	return blocks
}

// Controls derives the button state. Waiting and typing never overlap.
func (c *Controller) Controls() Controls {
	switch {
	case c.request != nil:
		return Controls{Mode: ControlsWaiting, PauseIcon: "✕", PauseTitle: "Cancel request", StopLabel: "Cancel request"}
	case c.animator.Paused():
		return Controls{Mode: ControlsTyping, PauseIcon: "▶", PauseTitle: "Resume generation", StopLabel: "Stop generating"}
	case c.animator.Active():
		return Controls{Mode: ControlsTyping, PauseIcon: "⏸", PauseTitle: "Pause generation", StopLabel: "Stop generating"}
	}
	return Controls{Mode: ControlsHidden}
}

// Messages returns a copy of the conversation log.
func (c *Controller) Messages() []models.Message {
	out := make([]models.Message, len(c.log))
	for i, e := range c.log {
		out[i] = e.msg
	}
	return out
}

// Request returns the request in flight, if any.
func (c *Controller) Request() (RequestHandle, bool) {
	if c.request == nil {
		return RequestHandle{}, false
	}
	return *c.request, true
}

func (c *Controller) Loading() bool {
	return c.loading
}

func (c *Controller) Typing() bool {
	return c.animator.Active()
}

func (c *Controller) Paused() bool {
	return c.animator.Paused()
}

func (c *Controller) AutoScroll() bool {
	return c.autoScroll
}

// SetAutoScroll records whether the view should follow new output, usually
// whether the user has scrolled to the bottom.
func (c *Controller) SetAutoScroll(on bool) {
	c.autoScroll = on
}
