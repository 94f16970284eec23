package populate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/garygangwu/cohosting-test/airbnb"
	"github.com/garygangwu/cohosting-test/bookings"
	"github.com/garygangwu/cohosting-test/config"
	"github.com/garygangwu/cohosting-test/metrics"
)

const TimestampFormat = "2006-01-02 15:04:05"

var ErrLocked = errors.New("another sync is already running")

type Fetcher interface {
	Fetch(ctx context.Context, account string) (*airbnb.Payload, error)
}

type Spreadsheet interface {
	Worksheets(ctx context.Context) ([]Worksheet, error)
}

// Worksheet is a single spreadsheet tab. The write methods are buffered and
// nothing reaches the spreadsheet until Save.
type Worksheet interface {
	Title() string
	Rows(ctx context.Context) ([][]any, error)
	UpdateCells(row, column int, rows [][]any)
	SetCell(cell string, value any)
	Truncate(n int)
	ClearRows(from int)
	Save(ctx context.Context) error
}

type Summary struct {
	Sheet     string
	Accounts  int
	Fetched   int
	SheetRows int
	Rows      int
	Updated   int
	Added     int
	Kept      int
	Skipped   bool

	// reconciled data rows, header excluded
	Data [][]any
}

type Populator struct {
	DryRun bool

	conf        *config.Config
	fetcher     Fetcher
	spreadsheet Spreadsheet
	log         zerolog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func New(conf *config.Config, fetcher Fetcher, spreadsheet Spreadsheet, log zerolog.Logger, m *metrics.Metrics) *Populator {
	if m == nil {
		m = metrics.New()
	}

	return &Populator{
		conf:        conf,
		fetcher:     fetcher,
		spreadsheet: spreadsheet,
		log:         log,
		metrics:     m,
		now:         time.Now,
	}
}

// Run syncs every configured group in order. Groups whose worksheet does not
// exist are skipped; any other error aborts the run.
func (p *Populator) Run(ctx context.Context) ([]Summary, error) {
	start := p.now()

	summaries, err := p.run(ctx)

	p.metrics.ObserveRun(start, err)

	return summaries, err
}

func (p *Populator) run(ctx context.Context) ([]Summary, error) {
	if len(p.conf.Groups) == 0 {
		return nil, config.ErrNoGroups
	}

	if !p.DryRun {
		unlock, err := p.lock()
		if err != nil {
			return nil, err
		}

		defer unlock()
	}

	log := p.log.With().Str("run", uuid.New().String()).Logger()
	log.Info().Int("groups", len(p.conf.Groups)).Bool("dryrun", p.DryRun).Msg("sync started")

	worksheets, err := p.spreadsheet.Worksheets(ctx)
	if err != nil {
		return nil, err
	}

	index := map[string]Worksheet{}
	for _, w := range worksheets {
		if _, ok := index[w.Title()]; !ok {
			index[w.Title()] = w
		}
	}

	summaries := []Summary{}
	for _, group := range p.conf.Groups {
		worksheet, ok := index[group.Sheet]
		if !ok {
			log.Warn().Str("sheet", group.Sheet).Msg("worksheet not found - skipping")
			p.metrics.Skipped()
			summaries = append(summaries, Summary{Sheet: group.Sheet, Skipped: true})
			continue
		}

		summary, err := p.sync(ctx, log, group, worksheet)
		if err != nil {
			return summaries, fmt.Errorf("sheet '%v' (%w)", group.Sheet, err)
		}

		log.Info().
			Str("sheet", summary.Sheet).
			Int("fetched", summary.Fetched).
			Int("rows", summary.Rows).
			Int("kept", summary.Kept).
			Int("updated", summary.Updated).
			Int("added", summary.Added).
			Msg("sheet synced")

		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

func (p *Populator) sync(ctx context.Context, log zerolog.Logger, group config.Group, worksheet Worksheet) (*Summary, error) {
	accounts := p.conf.Accounts(group)
	summary := Summary{
		Sheet:    group.Sheet,
		Accounts: len(accounts),
	}

	// NB: later accounts overwrite earlier accounts on a duplicate confirmation code
	api := bookings.NewReservations()
	for _, account := range accounts {
		reservations, err := p.fetch(ctx, log, account)
		if err != nil {
			return nil, err
		}

		summary.Fetched += reservations.Len()
		api.Merge(reservations)
	}

	rows, err := worksheet.Rows(ctx)
	if err != nil {
		return nil, err
	}

	records, err := bookings.NormalizeRows(rows, p.conf.HeaderRows)
	if err != nil {
		return nil, err
	}

	reconciled := bookings.Reconcile(api, records)
	data := bookings.Serialize(reconciled)

	summary.SheetRows = records.Len()
	summary.Rows = len(data)
	summary.Kept, summary.Updated, summary.Added = bookings.Tally(reconciled)
	summary.Data = data

	p.metrics.ObserveSheet(group.Sheet, summary.Kept, summary.Updated, summary.Added, summary.Rows)

	if p.DryRun {
		log.Info().Str("sheet", group.Sheet).Msg("dry run - worksheet not updated")
		return &summary, nil
	}

	first := p.conf.HeaderRows + 1

	worksheet.Truncate(first)
	worksheet.ClearRows(first)
	worksheet.UpdateCells(first, 1, data)
	worksheet.SetCell(p.conf.TimestampCell, p.now().Format(TimestampFormat))

	if err := worksheet.Save(ctx); err != nil {
		return nil, fmt.Errorf("worksheet may be left cleared (%w)", err)
	}

	return &summary, nil
}

// fetch retrieves and normalises the reservations for a single account. An
// account without an access token contributes nothing.
func (p *Populator) fetch(ctx context.Context, log zerolog.Logger, account string) (*bookings.Reservations, error) {
	start := time.Now()

	payload, err := p.fetcher.Fetch(ctx, account)
	if err != nil {
		p.metrics.ObserveFetch(account, 0, err, time.Since(start))
		return nil, err
	}

	if payload == nil {
		log.Warn().Str("account", account).Msg("no access token - skipping account")
		p.metrics.ObserveFetch(account, -1, nil, time.Since(start))
		return bookings.NewReservations(), nil
	}

	reservations, err := bookings.NormalizePayload(payload)
	if err != nil {
		p.metrics.ObserveFetch(account, 0, err, time.Since(start))
		return nil, fmt.Errorf("account %v (%w)", account, err)
	}

	p.metrics.ObserveFetch(account, reservations.Len(), nil, time.Since(start))
	log.Debug().Str("account", account).Int("reservations", reservations.Len()).Msg("fetched reservations")

	return reservations, nil
}

func (p *Populator) lock() (func(), error) {
	if err := os.MkdirAll(p.conf.Workdir, 0770); err != nil {
		return nil, fmt.Errorf("unable to create working directory '%v' (%w)", p.conf.Workdir, err)
	}

	lock := flock.New(p.conf.LockFile())

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("unable to acquire lock '%v' (%w)", lock.Path(), err)
	} else if !ok {
		return nil, ErrLocked
	}

	return func() { lock.Unlock() }, nil
}
