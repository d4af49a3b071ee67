package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/auth"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/notify"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/resources"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/upload"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/config"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/export"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/logger"
)

// resourceOps is the uniform surface the CLI drives; each managed
// collection is adapted onto it so the command loop stays generic.
type resourceOps struct {
	title   string
	list    func(ctx context.Context, page int, search string) (export.Dataset, string, error)
	create  func(ctx context.Context, raw string) error
	update  func(ctx context.Context, id int64, raw string) error
	remove  func(ctx context.Context, id int64, confirm func() bool) error
	dataset func(ctx context.Context) export.Dataset
}

func main() {
	var (
		resourceName string
		op           string
		page         int
		search       string
		id           int64
		data         string
		format       string
		account      string
		password     string
		imagePath    string
		yes          bool
	)

	flag.StringVar(&resourceName, "resource", "", "Resource collection (faculties, majors, classes, rooms, courses, lecturers, students, schedules)")
	flag.StringVar(&op, "op", "list", "Operation: login, logout, whoami, list, create, update, delete, export, upload-image")
	flag.IntVar(&page, "page", 1, "One-based page number")
	flag.StringVar(&search, "search", "", "Search term")
	flag.Int64Var(&id, "id", 0, "Item id for update/delete")
	flag.StringVar(&data, "data", "", "JSON payload for create/update")
	flag.StringVar(&format, "format", "csv", "Export format: csv or pdf")
	flag.StringVar(&account, "account", "", "Account for login")
	flag.StringVar(&password, "password", "", "Password for login")
	flag.StringVar(&imagePath, "file", "", "Image file for upload-image")
	flag.BoolVar(&yes, "yes", false, "Skip the delete confirmation prompt")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sess := session.New(session.NewFileStore(cfg.Session.CredentialFile), logr)
	if err := sess.Load(ctx); err != nil {
		logr.Warn("could not restore session", zap.Error(err))
	}
	sess.OnExpire(func() {
		fmt.Fprintln(os.Stderr, "session expired, run -op login again")
	})

	client := api.NewClient(api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, sess, logr)
	authClient := auth.NewClient(client, sess, logr)

	switch op {
	case "login":
		user, err := authClient.Login(ctx, account, password)
		exitOn(err)
		if user != nil {
			fmt.Printf("signed in as %s (%s)\n", user.FullName, user.Role)
		} else {
			fmt.Println("signed in")
		}
		return
	case "logout":
		exitOn(authClient.Logout(ctx))
		fmt.Println("signed out")
		return
	case "whoami":
		user, err := authClient.Me(ctx)
		exitOn(err)
		fmt.Printf("%s (%s) role=%s\n", user.FullName, user.Account, user.Role)
		return
	case "upload-image":
		if id <= 0 {
			log.Fatal("upload-image requires -id")
		}
		if imagePath == "" {
			log.Fatal("upload-image requires -file")
		}
		exitOn(uploadImage(ctx, cfg, sess, logr, id, imagePath))
		return
	}

	opts := resources.Options{
		PageSize: cfg.API.PageSize,
		Debounce: cfg.API.SearchDebounce,
		Notifier: notify.NewLogNotifier(logr),
		Logger:   logr,
	}
	ops, ok := buildResource(client, opts, resourceName)
	if !ok {
		log.Fatalf("unknown resource %q", resourceName)
	}

	switch op {
	case "list":
		dataset, summary, err := ops.list(ctx, page, search)
		exitOn(err)
		printTable(dataset)
		fmt.Println(summary)
	case "create":
		exitOn(ops.create(ctx, data))
		fmt.Println("created")
	case "update":
		if id <= 0 {
			log.Fatal("update requires -id")
		}
		exitOn(ops.update(ctx, id, data))
		fmt.Println("updated")
	case "delete":
		if id <= 0 {
			log.Fatal("delete requires -id")
		}
		exitOn(ops.remove(ctx, id, confirmFn(yes, id)))
	case "export":
		_, _, err := ops.list(ctx, page, search)
		exitOn(err)
		exitOn(writeExport(ops.dataset(ctx), cfg.Export.OutputDir, resourceName, format))
	default:
		log.Fatalf("unknown operation %q", op)
	}
}

func buildResource(client *api.Client, opts resources.Options, name string) (*resourceOps, bool) {
	switch name {
	case "faculties":
		return adapt(resources.NewFacultyManager(client, opts)), true
	case "majors":
		return adapt(resources.NewMajorManager(client, opts)), true
	case "classes":
		return adapt(resources.NewClassManager(client, opts)), true
	case "rooms":
		return adapt(resources.NewClassRoomManager(client, opts)), true
	case "courses":
		return adapt(resources.NewCourseManager(client, opts)), true
	case "lecturers":
		return adapt(resources.NewLecturerManager(client, opts)), true
	case "students":
		return adapt(resources.NewStudentManager(client, opts)), true
	case "schedules":
		return adapt(resources.NewScheduleManager(client, opts)), true
	default:
		return nil, false
	}
}

func adapt[R any, P any](m *resources.Manager[R, P]) *resourceOps {
	return &resourceOps{
		title: m.Title,
		list: func(ctx context.Context, page int, search string) (export.Dataset, string, error) {
			if search != "" {
				// Propagation is debounced; wait it out so the fetch uses
				// the term, then move to the requested page.
				m.List.SetSearch(ctx, search)
				for m.List.State().DebouncedSearchTerm != search {
					time.Sleep(50 * time.Millisecond)
				}
			}
			m.List.SetPage(ctx, page)
			state := m.List.State()
			if state.Err != "" {
				return export.Dataset{}, "", fmt.Errorf("%s", state.Err)
			}
			summary := fmt.Sprintf("page %d/%d, %d items total", state.Page, max(state.TotalPages, 1), state.TotalItems)
			return m.Dataset(ctx), summary, nil
		},
		create: func(ctx context.Context, raw string) error {
			var payload P
			if err := json.Unmarshal([]byte(raw), &payload); err != nil {
				return fmt.Errorf("decode -data payload: %w", err)
			}
			draft := m.Mutations.NewDraft(payload)
			if err := m.Mutations.Submit(ctx, draft); err != nil {
				if draft.FieldError != "" {
					return fmt.Errorf("%s", draft.FieldError)
				}
				return err
			}
			return nil
		},
		update: func(ctx context.Context, id int64, raw string) error {
			var payload P
			if err := json.Unmarshal([]byte(raw), &payload); err != nil {
				return fmt.Errorf("decode -data payload: %w", err)
			}
			draft := m.Mutations.EditDraft(id, nil, payload)
			if err := m.Mutations.Submit(ctx, draft); err != nil {
				if draft.FieldError != "" {
					return fmt.Errorf("%s", draft.FieldError)
				}
				return err
			}
			return nil
		},
		remove: func(ctx context.Context, id int64, confirm func() bool) error {
			return m.Mutations.Remove(ctx, id, confirm)
		},
		dataset: m.Dataset,
	}
}

func uploadImage(ctx context.Context, cfg *config.Config, sess *session.Session, logr *zap.Logger, studentID int64, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return err
	}
	contentType := http.DetectContentType(head[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	uploader := upload.NewImageUploader(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, sess, logr)
	url, err := uploader.UploadProfileImage(ctx, studentID, contentType, file)
	if err != nil {
		return err
	}
	if url != "" {
		fmt.Printf("uploaded, image at %s\n", url)
	} else {
		fmt.Println("uploaded")
	}
	return nil
}

func confirmFn(yes bool, id int64) func() bool {
	if yes {
		return func() bool { return true }
	}
	return func() bool {
		fmt.Printf("delete item %d? [y/N] ", id)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func printTable(dataset export.Dataset) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	headers := make([]string, len(dataset.Columns))
	for i, col := range dataset.Columns {
		headers[i] = col.Header
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range dataset.Rows {
		cells := make([]string, len(dataset.Columns))
		for i, col := range dataset.Columns {
			cells[i] = row[col.Key]
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush() //nolint:errcheck
}

func writeExport(dataset export.Dataset, dir, resource, format string) error {
	var exporter export.Exporter
	switch format {
	case "pdf":
		exporter = export.NewPDFExporter()
	default:
		exporter = export.NewCSVExporter()
	}
	store, err := export.NewStore(dir)
	if err != nil {
		return err
	}
	path, err := store.Save(resource, exporter, dataset)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d rows to %s\n", len(dataset.Rows), path)
	return nil
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
