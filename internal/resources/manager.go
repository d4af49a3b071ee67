package resources

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/form"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/list"
	uimutation "github.com/LeDuc-16/smart-attendance-sub000/internal/mutation"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/notify"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/export"
)

// Options configures the generic stack shared by every managed resource.
type Options struct {
	PageSize int
	Debounce time.Duration
	Notifier notify.Notifier
	Logger   *zap.Logger
}

// Manager bundles the full CRUD stack for one collection: typed resource
// client, list controller, mutation coordinator, and the presentation
// config (columns, row renderer) the CLI and exporters share.
type Manager[R any, P any] struct {
	Title     string
	Resource  *api.Resource[R, P]
	List      *list.Controller[R]
	Mutations *uimutation.Coordinator[R, P]
	Columns   []export.Column
	Row       func(R) map[string]string

	// join resolves display names for rows the backend returned as bare
	// foreign ids. Set only on collections that need secondary lookups.
	join   func(ctx context.Context, items []R) error
	logger *zap.Logger
}

// newManager assembles a manager from its per-resource descriptor parts.
func newManager[R any, P any](
	client *api.Client,
	opts Options,
	title, path string,
	displayField func(R) string,
	columns []export.Column,
	row func(R) map[string]string,
	rules ...form.Rule[P],
) *Manager[R, P] {
	resource := api.NewResource[R, P](client, path)
	controller := list.NewController[R](resource, list.Config[R]{
		PageSize:     opts.PageSize,
		Debounce:     opts.Debounce,
		DisplayField: displayField,
	}, opts.Logger)
	gate := form.NewGate[P](form.NewValidator(), rules...)
	coordinator := uimutation.NewCoordinator[R, P](resource, gate, controller, opts.Notifier, opts.Logger)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager[R, P]{
		Title:     title,
		Resource:  resource,
		List:      controller,
		Mutations: coordinator,
		Columns:   columns,
		Row:       row,
		logger:    logger,
	}
}

// Dataset renders the currently fetched page into an exportable table,
// resolving joined display names first when the collection declares a join.
func (m *Manager[R, P]) Dataset(ctx context.Context) export.Dataset {
	state := m.List.State()
	if m.join != nil {
		if err := m.join(ctx, state.Items); err != nil {
			m.logger.Warn("name join failed", zap.Error(err))
		}
	}
	rows := make([]map[string]string, 0, len(state.Items))
	for _, item := range state.Items {
		rows = append(rows, m.Row(item))
	}
	return export.Dataset{Title: m.Title, Columns: m.Columns, Rows: rows}
}

func formatID(id int64) string {
	return fmt.Sprintf("%d", id)
}
