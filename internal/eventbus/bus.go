package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SendMessageEvent - UI asks core to post a chat message
type SendMessageEvent struct {
	RequestID string
	Message   string
}

func (e SendMessageEvent) UIEvent() {}

// CancelRequestEvent - UI aborts the chat request with RequestID
type CancelRequestEvent struct {
	RequestID string
}

func (e CancelRequestEvent) UIEvent() {}

type LoadSessionEvent struct{}

func (e LoadSessionEvent) UIEvent() {}

type LoadHistoryEvent struct{}

func (e LoadHistoryEvent) UIEvent() {}

type ClearSessionEvent struct{}

func (e ClearSessionEvent) UIEvent() {}

type LoadTrackerEvent struct{}

func (e LoadTrackerEvent) UIEvent() {}

type LogEntryEvent struct {
	Entry api.NewEntry
}

func (e LogEntryEvent) UIEvent() {}

type ClearTrackerEvent struct{}

func (e ClearTrackerEvent) UIEvent() {}

// DownloadEvent - UI asks core to save the tracker export to Path
type DownloadEvent struct {
	Path string
}

func (e DownloadEvent) UIEvent() {}

// ChatResultEvent - Core reports how the chat request RequestID ended
type ChatResultEvent struct {
	RequestID    string
	Reply        string
	ErrorPayload string
	Err          error
}

func (e ChatResultEvent) CoreEvent() {}

type SessionLoadedEvent struct {
	Entries []models.HistoryEntry
	Err     error
}

func (e SessionLoadedEvent) CoreEvent() {}

type HistoryLoadedEvent struct {
	Entries []models.HistoryEntry
	Err     error
}

func (e HistoryLoadedEvent) CoreEvent() {}

type SessionClearedEvent struct {
	Err error
}

func (e SessionClearedEvent) CoreEvent() {}

type TrackerLoadedEvent struct {
	Data api.TrackerData
	Err  error
}

func (e TrackerLoadedEvent) CoreEvent() {}

// EntryLoggedEvent - Core reports a saved entry; Data is the server's updated log when it sent one
type EntryLoggedEvent struct {
	Data api.TrackerData
	Err  error
}

func (e EntryLoggedEvent) CoreEvent() {}

type TrackerClearedEvent struct {
	Err error
}

func (e TrackerClearedEvent) CoreEvent() {}

type DownloadedEvent struct {
	Path string
	Err  error
}

func (e DownloadedEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrChannelFull = errors.New("channel is full")
	ErrClosed      = errors.New("event bus is closed")
)

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	}
	return "closed"
}

// CircuitBreaker implements circuit breaker pattern. Core workers report
// from their own goroutines, so it is guarded by a mutex.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker

	mu     sync.RWMutex
	closed bool
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	if eb.errorCallback != nil {
		eb.errorCallback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}

	if eb.circuitBreaker.IsOpen() {
		eb.reportError("SendToCore", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.uiToCore <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportError("SendToCore", ErrChannelFull)
		return ErrChannelFull
	}
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}

	if eb.circuitBreaker.IsOpen() {
		eb.reportError("SendToUI", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.coreToUI <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportError("SendToUI", ErrChannelFull)
		return ErrChannelFull
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close closes both channels. Sends after Close return ErrClosed.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
