package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/config"
	"github.com/Rorical/diabeguide/internal/core"
	"github.com/Rorical/diabeguide/internal/dispatcher"
	"github.com/Rorical/diabeguide/internal/eventbus"
	"github.com/Rorical/diabeguide/internal/render"
	"github.com/Rorical/diabeguide/internal/update"
	"github.com/Rorical/diabeguide/pkg/logger"
)

// Options tune how the chat view starts.
type Options struct {
	// ChatURL is a chat route such as /chatbot?message=... whose message is
	// submitted once the session has loaded.
	ChatURL string
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.Service
	model      *AppModel
}

type AppModel struct {
	state      update.State
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:       cfg.GetBaseURL(),
		SessionCookie: cfg.GetSessionCookie(),
		CookieName:    cfg.GetCookieName(),
		Timeout:       cfg.GetTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	renderer, err := render.New(cfg.Render.Style, cfg.Render.WordWrap)
	if err != nil {
		return nil, err
	}

	// Create event bus
	eb := eventbus.NewEventBus()

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	service := core.NewService(client, eb)

	state := update.NewState(core.NewController(renderer), eb, cfg.DownloadPath())
	state.UI.Status = fmt.Sprintf("Profile %s: %s", cfg.ActiveProfile, cfg.GetBaseURL())
	if opts.ChatURL != "" {
		state.OpenEmergency(opts.ChatURL)
	}

	logger.WithFields(logrus.Fields{
		"profile":  cfg.ActiveProfile,
		"base_url": cfg.GetBaseURL(),
	}).Info("starting diabeguide")

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      &AppModel{state: state, dispatcher: disp},
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.dispatcher.Start()
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.dispatcher.Stop()
	app.service.Stop()
	app.eventBus.Close()
}
