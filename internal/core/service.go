package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/eventbus"
	"github.com/Rorical/diabeguide/internal/models"
	"github.com/Rorical/diabeguide/pkg/logger"
)

// Backend is the part of the API client the service drives.
type Backend interface {
	Chat(ctx context.Context, message string) (*api.ChatResponse, error)
	CurrentSession(ctx context.Context) ([]models.HistoryEntry, error)
	History(ctx context.Context) ([]models.HistoryEntry, error)
	ClearSession(ctx context.Context) error
	Tracker(ctx context.Context) (api.TrackerData, error)
	LogEntry(ctx context.Context, entry api.NewEntry) (api.TrackerData, error)
	ClearTracker(ctx context.Context) error
	Download(ctx context.Context) (json.RawMessage, error)
}

// Service performs the network side of UI events off the UI goroutine and
// reports each outcome back as a core event.
type Service struct {
	backend  Backend
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	inflight *cancelManager
	wg       sync.WaitGroup

	// retryDelay is how long a refused chat result waits before its one retry.
	retryDelay time.Duration
}

func NewService(backend Backend, eb *eventbus.EventBus) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		backend:  backend,
		eventBus: eb,
		ctx:      ctx,
		cancel:   cancel,
		inflight: newCancelManager(),

		retryDelay: 100 * time.Millisecond,
	}
}

// Start runs the core logic in a goroutine
func (s *Service) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.eventLoop()
	}()
}

// Stop cancels outstanding work and waits for every worker to return.
func (s *Service) Stop() {
	if id := s.inflight.current(); id != "" {
		logger.WithFields(logrus.Fields{"request_id": id}).Debug("aborting chat request on shutdown")
	}
	s.cancel()
	s.inflight.cancel("")
	s.wg.Wait()
}

func (s *Service) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.eventBus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		}
	}
}

func (s *Service) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		s.sendMessage(e)
	case eventbus.CancelRequestEvent:
		if s.inflight.cancel(e.RequestID) {
			logger.WithFields(logrus.Fields{"request_id": e.RequestID}).Debug("chat request cancelled")
		}
	case eventbus.LoadSessionEvent:
		s.goPush(func(ctx context.Context) eventbus.CoreEvent {
			entries, err := s.backend.CurrentSession(ctx)
			return eventbus.SessionLoadedEvent{Entries: entries, Err: err}
		})
	case eventbus.LoadHistoryEvent:
		s.goPush(func(ctx context.Context) eventbus.CoreEvent {
			entries, err := s.backend.History(ctx)
			return eventbus.HistoryLoadedEvent{Entries: entries, Err: err}
		})
	case eventbus.ClearSessionEvent:
		s.goPush(func(ctx context.Context) eventbus.CoreEvent {
			return eventbus.SessionClearedEvent{Err: s.backend.ClearSession(ctx)}
		})
	case eventbus.LoadTrackerEvent:
		s.goPush(func(ctx context.Context) eventbus.CoreEvent {
			data, err := s.backend.Tracker(ctx)
			return eventbus.TrackerLoadedEvent{Data: data, Err: err}
		})
	case eventbus.LogEntryEvent:
		s.goPush(func(ctx context.Context) eventbus.CoreEvent {
			data, err := s.backend.LogEntry(ctx, e.Entry)
			return eventbus.EntryLoggedEvent{Data: data, Err: err}
		})
	case eventbus.ClearTrackerEvent:
		s.goPush(func(ctx context.Context) eventbus.CoreEvent {
			return eventbus.TrackerClearedEvent{Err: s.backend.ClearTracker(ctx)}
		})
	case eventbus.DownloadEvent:
		s.goPush(func(ctx context.Context) eventbus.CoreEvent {
			raw, err := s.backend.Download(ctx)
			if err == nil {
				err = api.SaveDownload(e.Path, raw)
			}
			return eventbus.DownloadedEvent{Path: e.Path, Err: err}
		})
	default:
		logger.Warnf("unhandled UI event %T", event)
	}
}

// sendMessage issues the chat request on its own context so that a later
// send or an explicit cancel can abort it.
func (s *Service) sendMessage(e eventbus.SendMessageEvent) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight.replace(e.RequestID, cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result := eventbus.ChatResultEvent{RequestID: e.RequestID}
		resp, err := s.backend.Chat(api.WithRequestID(ctx, e.RequestID), e.Message)
		s.inflight.finish(e.RequestID)

		if err != nil {
			result.Err = err
		} else {
			result.Reply = resp.Reply
			result.ErrorPayload = resp.Error
		}
		s.push(result)
	}()
}

func (s *Service) goPush(fn func(ctx context.Context) eventbus.CoreEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.push(fn(s.ctx))
	}()
}

func (s *Service) push(event eventbus.CoreEvent) {
	if s.ctx.Err() != nil {
		return
	}
	err := s.eventBus.SendToUI(event)
	// A lost chat result leaves the UI waiting until the user cancels.
	if _, ok := event.(eventbus.ChatResultEvent); ok && errors.Is(err, eventbus.ErrChannelFull) {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(s.retryDelay):
		}
		err = s.eventBus.SendToUI(event)
	}
	if err != nil {
		logger.WithFields(logrus.Fields{"event": event, "error": err}).Error("failed to send event to UI")
	}
}
