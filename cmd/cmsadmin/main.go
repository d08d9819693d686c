package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/samir7888/hospital-cms-client/cms"
	"github.com/samir7888/hospital-cms-client/internal/config"
	apperrors "github.com/samir7888/hospital-cms-client/internal/errors"
	"github.com/samir7888/hospital-cms-client/session"
)

const usage = `usage: cmsadmin [flags] <command> [args]

commands:
  login                         sign in (-email and -password flags)
  whoami                        show the signed-in user
  logout                        sign out and clear the session
  list <resource>               list records (-page, -take, -search flags)
  get <resource> <id>           fetch one record
  delete <resource> <id>        delete a record
  company-info                  show the company info record
  change-password               -current, -new, optional -everywhere
  forgot-password               -email
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cmsadmin: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	var (
		email      = flag.String("email", "", "account email")
		password   = flag.String("password", "", "account password")
		current    = flag.String("current", "", "current password")
		newPass    = flag.String("new", "", "new password")
		everywhere = flag.Bool("everywhere", false, "sign out of all sessions after a password change")
		page       = flag.Int("page", 1, "list page (1-indexed)")
		take       = flag.Int("take", 10, "list page size")
		search     = flag.String("search", "", "list search term")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("a command is required")
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	cfg := config.New()
	displayAppName(cfg.GetAppName())

	app, err := cms.New(cfg,
		cms.WithLogger(logger),
		cms.WithNotifier(session.LogNotifier{Log: logger}),
		cms.WithNavigator(session.NavigatorFunc(func(route string) {
			logger.Debug().Str("route", route).Msg("navigate")
		})),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Silent refresh before anything protected runs.
	if err := app.Start(ctx); err != nil {
		return err
	}

	command := flag.Arg(0)
	switch command {
	case "login":
		if *email == "" || *password == "" {
			return errors.New("login requires -email and -password")
		}
		return app.Session.Login(ctx, *email, *password)
	case "forgot-password":
		if *email == "" {
			return errors.New("forgot-password requires -email")
		}
		return app.Session.ForgotPassword(ctx, *email)
	}

	// Everything below is behind the route guard.
	if !app.Guard.Check(session.DashboardRoute) {
		return apperrors.ErrNotAuthenticated
	}

	switch command {
	case "whoami":
		user, err := app.Session.RequireUser()
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		return nil

	case "logout":
		return app.Logout(ctx)

	case "list":
		if flag.NArg() < 2 {
			return errors.New("list requires a resource name")
		}
		params := cms.ListParams{Page: *page, Take: *take, Search: *search}
		return listResource(ctx, app, flag.Arg(1), params)

	case "get":
		if flag.NArg() < 3 {
			return errors.New("get requires a resource name and an id")
		}
		return getResource(ctx, app, flag.Arg(1), flag.Arg(2))

	case "delete":
		if flag.NArg() < 3 {
			return errors.New("delete requires a resource name and an id")
		}
		return deleteResource(ctx, app, flag.Arg(1), flag.Arg(2))

	case "company-info":
		info, err := app.CompanyInfo().Get(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)

	case "change-password":
		if *current == "" || *newPass == "" {
			return errors.New("change-password requires -current and -new")
		}
		return app.Session.ChangePassword(ctx, *current, *newPass, *everywhere)

	default:
		flag.Usage()
		return errors.Errorf("unknown command %q", command)
	}
}

func listResource(ctx context.Context, app *cms.CMS, resource string, params cms.ListParams) error {
	switch resource {
	case "doctors":
		return printPage(app.Doctors().List(ctx, params))
	case "staff":
		return printPage(app.Staff().List(ctx, params))
	case "services":
		return printPage(app.Services().List(ctx, params))
	case "blogs", "news":
		return printPage(app.News().List(ctx, params))
	case "events":
		return printPage(app.Events().List(ctx, params))
	case "faqs":
		return printPage(app.FAQs().List(ctx, params))
	case "testimonials":
		return printPage(app.Testimonials().List(ctx, params))
	case "appointments":
		return printPage(app.Appointments().List(ctx, params))
	case "hero-sections":
		return printPage(app.HeroSections().List(ctx, params))
	}
	return errors.Errorf("unknown resource %q", resource)
}

func getResource(ctx context.Context, app *cms.CMS, resource, id string) error {
	switch resource {
	case "doctors":
		return printRecord(app.Doctors().Get(ctx, id))
	case "staff":
		return printRecord(app.Staff().Get(ctx, id))
	case "services":
		return printRecord(app.Services().Get(ctx, id))
	case "blogs", "news":
		return printRecord(app.News().Get(ctx, id))
	case "events":
		return printRecord(app.Events().Get(ctx, id))
	case "faqs":
		return printRecord(app.FAQs().Get(ctx, id))
	case "testimonials":
		return printRecord(app.Testimonials().Get(ctx, id))
	case "appointments":
		return printRecord(app.Appointments().Get(ctx, id))
	case "hero-sections":
		return printRecord(app.HeroSections().Get(ctx, id))
	}
	return errors.Errorf("unknown resource %q", resource)
}

func deleteResource(ctx context.Context, app *cms.CMS, resource, id string) error {
	switch resource {
	case "doctors":
		return app.Doctors().Delete(ctx, id)
	case "staff":
		return app.Staff().Delete(ctx, id)
	case "services":
		return app.Services().Delete(ctx, id)
	case "blogs", "news":
		return app.News().Delete(ctx, id)
	case "events":
		return app.Events().Delete(ctx, id)
	case "faqs":
		return app.FAQs().Delete(ctx, id)
	case "testimonials":
		return app.Testimonials().Delete(ctx, id)
	case "appointments":
		return app.Appointments().Delete(ctx, id)
	case "hero-sections":
		return app.HeroSections().Delete(ctx, id)
	}
	return errors.Errorf("unknown resource %q", resource)
}

func printPage[T any](page *cms.Page[T], err error) error {
	if err != nil {
		return err
	}
	if err := printJSON(page.Data); err != nil {
		return err
	}
	fmt.Printf("page %d of %d (%d items)\n", page.Meta.Page, page.Meta.PageCount, page.Meta.ItemCount)
	return nil
}

func printRecord[T any](record *T, err error) error {
	if err != nil {
		return err
	}
	return printJSON(record)
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding output")
	}
	fmt.Println(string(encoded))
	return nil
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
