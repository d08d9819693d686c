package cms

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/samir7888/hospital-cms-client/api"
	"github.com/samir7888/hospital-cms-client/guard"
	"github.com/samir7888/hospital-cms-client/internal/config"
	"github.com/samir7888/hospital-cms-client/query"
	"github.com/samir7888/hospital-cms-client/session"
)

// CMS wires the dashboard core together: one API client with a cookie jar,
// one session store feeding the client's token source, the silent refresh
// gate, the route guard, one query cache, and a typed client per managed
// resource.
type CMS struct {
	Client  *api.Client
	Cache   *query.Cache
	Session *session.Store
	Gate    *session.Gate
	Guard   *guard.Guard

	doctors      *Resource[Doctor]
	staff        *Resource[StaffMember]
	services     *Resource[Service]
	news         *Resource[NewsPost]
	events       *Resource[Event]
	faqs         *Resource[FAQ]
	testimonials *Resource[Testimonial]
	appointments *Resource[Appointment]
	companyInfo  *Singleton[CompanyInfo]
	heroSections *Resource[HeroSection]
}

type settings struct {
	log      zerolog.Logger
	notifier session.Notifier
	nav      session.Navigator
	timeout  time.Duration
}

// Option configures optional CMS collaborators.
type Option func(*settings)

// WithLogger sets the logger shared by the API client and notifier default.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithNotifier sets the notification surface.
func WithNotifier(notifier session.Notifier) Option {
	return func(s *settings) {
		s.notifier = notifier
	}
}

// WithNavigator sets the navigation surface.
func WithNavigator(nav session.Navigator) Option {
	return func(s *settings) {
		s.nav = nav
	}
}

// WithTimeout sets the outbound request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

// New builds the CMS client stack from configuration.
func New(cfg config.Config, options ...Option) (*CMS, error) {
	s := settings{log: zerolog.Nop()}
	for _, opt := range options {
		opt(&s)
	}
	if s.notifier == nil {
		s.notifier = session.LogNotifier{Log: s.log}
	}
	if s.nav == nil {
		s.nav = session.NavigatorFunc(func(string) {})
	}
	if s.timeout == 0 {
		if parsed, err := time.ParseDuration(cfg.GetHTTPTimeout()); err == nil {
			s.timeout = parsed
		}
	}

	clientOpts := []api.Option{api.WithLogger(s.log)}
	if s.timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(s.timeout))
	}
	client, err := api.New(cfg.GetAPIBaseURL(), clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "[cms.New] building api client")
	}

	store, err := session.NewStore(client, session.WithNotifier(s.notifier), session.WithNavigator(s.nav))
	if err != nil {
		return nil, errors.Wrap(err, "[cms.New] building session store")
	}
	// The store needs the client for its login call, so the token source is
	// bound after construction.
	client.SetTokenSource(store.TokenSource())

	routeGuard, err := guard.New(store, s.nav)
	if err != nil {
		return nil, errors.Wrap(err, "[cms.New] building route guard")
	}

	cache := query.NewCache()

	return &CMS{
		Client:  client,
		Cache:   cache,
		Session: store,
		Gate:    session.NewGate(store),
		Guard:   routeGuard,

		doctors:      NewResource[Doctor](client, cache, "doctors"),
		staff:        NewResource[StaffMember](client, cache, "staff"),
		services:     NewResource[Service](client, cache, "services"),
		news:         NewResource[NewsPost](client, cache, "blogs"),
		events:       NewResource[Event](client, cache, "events"),
		faqs:         NewResource[FAQ](client, cache, "faqs"),
		testimonials: NewResource[Testimonial](client, cache, "testimonials"),
		appointments: NewResource[Appointment](client, cache, "appointments"),
		companyInfo:  NewSingleton[CompanyInfo](client, cache, "company-info"),
		heroSections: NewResource[HeroSection](client, cache, "hero-sections"),
	}, nil
}

// Start runs the silent refresh exchange and blocks until it settles. The
// session may still be empty afterwards; the route guard decides what that
// means per route.
func (c *CMS) Start(ctx context.Context) error {
	c.Gate.Start(ctx)
	if err := c.Gate.Wait(ctx); err != nil {
		return errors.Wrap(err, "[CMS.Start] waiting for silent refresh")
	}
	return nil
}

// Logout signs out and drops all cached reads so the next session starts
// clean.
func (c *CMS) Logout(ctx context.Context) error {
	err := c.Session.Logout(ctx)
	c.Cache.Clear()
	return err
}

func (c *CMS) Doctors() *Resource[Doctor]           { return c.doctors }
func (c *CMS) Staff() *Resource[StaffMember]        { return c.staff }
func (c *CMS) Services() *Resource[Service]         { return c.services }
func (c *CMS) News() *Resource[NewsPost]            { return c.news }
func (c *CMS) Events() *Resource[Event]             { return c.events }
func (c *CMS) FAQs() *Resource[FAQ]                 { return c.faqs }
func (c *CMS) Testimonials() *Resource[Testimonial] { return c.testimonials }
func (c *CMS) Appointments() *Resource[Appointment] { return c.appointments }
func (c *CMS) CompanyInfo() *Singleton[CompanyInfo] { return c.companyInfo }
func (c *CMS) HeroSections() *Resource[HeroSection] { return c.heroSections }
