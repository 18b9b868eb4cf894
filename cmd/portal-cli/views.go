package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/intranet-portal-client/internal/listview"
	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/internal/portal"
	"github.com/noah-isme/intranet-portal-client/pkg/export"
)

type cliOptions struct {
	Resource string
	Keyword  string
	Field    string
	Page     int
	PageSize int
	Export   string
	Code     string
	Password string
}

// runner prints one resource list; it closes over the record type.
type runner func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error

var resources = map[string]runner{
	"approvals": func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
		return show(ctx, p, opts, out, view[models.Approval]{
			name:  "approvals",
			fetch: p.Approvals.MyRequests,
			columns: []listview.Column[models.Approval]{
				listview.FieldColumn[models.Approval]("Title", models.FieldTitle),
				listview.FieldColumn[models.Approval]("Type", "type"),
				listview.FieldColumn[models.Approval]("Status", models.FieldStatus),
				listview.FieldColumn[models.Approval]("Approver", "approverName"),
				listview.FieldColumn[models.Approval]("Created", "createdAt"),
			},
		})
	},
	"meetings": func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
		return show(ctx, p, opts, out, view[models.Meeting]{
			name:  "meetings",
			fetch: p.Meetings.List,
			columns: []listview.Column[models.Meeting]{
				listview.FieldColumn[models.Meeting]("Title", models.FieldTitle),
				listview.FieldColumn[models.Meeting]("Organizer", models.FieldAuthor),
				listview.FieldColumn[models.Meeting]("Location", "location"),
				listview.FieldColumn[models.Meeting]("Start", "startTime"),
			},
		})
	},
	"notices": func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
		return show(ctx, p, opts, out, view[models.Notice]{
			name:  "notices",
			fetch: p.Notices.List,
			columns: []listview.Column[models.Notice]{
				listview.FieldColumn[models.Notice]("Title", models.FieldTitle),
				listview.FieldColumn[models.Notice]("Department", models.FieldDepartment),
				listview.FieldColumn[models.Notice]("Author", models.FieldAuthor),
				listview.FieldColumn[models.Notice]("Important", "isImportant"),
				listview.FieldColumn[models.Notice]("Created", "createdAt"),
			},
		})
	},
	"employees": func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
		return show(ctx, p, opts, out, view[models.Employee]{
			name:  "employees",
			fetch: p.Employees.List,
			columns: []listview.Column[models.Employee]{
				listview.FieldColumn[models.Employee]("Code", "employeeCode"),
				listview.FieldColumn[models.Employee]("Name", "name"),
				listview.FieldColumn[models.Employee]("Department", models.FieldDepartment),
				listview.FieldColumn[models.Employee]("Position", "position"),
				listview.FieldColumn[models.Employee]("Status", models.FieldStatus),
			},
		})
	},
	"attendance": func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
		return show(ctx, p, opts, out, view[models.Attendance]{
			name:  "attendance",
			fetch: p.Attendance.MyRecords,
			columns: []listview.Column[models.Attendance]{
				listview.FieldColumn[models.Attendance]("Date", "workDate"),
				listview.FieldColumn[models.Attendance]("Check in", "checkIn"),
				listview.FieldColumn[models.Attendance]("Check out", "checkOut"),
				listview.FieldColumn[models.Attendance]("Status", models.FieldStatus),
			},
		})
	},
	"leave": func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
		return show(ctx, p, opts, out, view[models.LeaveRequest]{
			name:  "leave",
			fetch: p.Leave.MyRequests,
			columns: []listview.Column[models.LeaveRequest]{
				listview.FieldColumn[models.LeaveRequest]("Type", "leaveType"),
				listview.FieldColumn[models.LeaveRequest]("From", "startDate"),
				listview.FieldColumn[models.LeaveRequest]("To", "endDate"),
				listview.FieldColumn[models.LeaveRequest]("Status", models.FieldStatus),
			},
		})
	},
	"messages": func(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
		return show(ctx, p, opts, out, view[models.Message]{
			name:  "messages",
			fetch: p.Messages.Inbox,
			columns: []listview.Column[models.Message]{
				listview.FieldColumn[models.Message]("Title", models.FieldTitle),
				listview.FieldColumn[models.Message]("From", models.FieldAuthor),
				listview.FieldColumn[models.Message]("Read", "isRead"),
				listview.FieldColumn[models.Message]("Sent", "sentAt"),
			},
		})
	},
}

func resourceNames() string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// run logs in and prints the requested list page.
func run(ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer) error {
	r, ok := resources[strings.ToLower(opts.Resource)]
	if !ok {
		return fmt.Errorf("unknown resource %q (want one of %s)", opts.Resource, resourceNames())
	}
	if opts.Code == "" {
		return errors.New("an employee code is required (-code or PORTAL_EMPLOYEE_CODE)")
	}
	login, err := p.Auth.Login(ctx, opts.Code, opts.Password)
	if err != nil {
		return err
	}
	if login.FirstLogin {
		fmt.Fprintln(out, "First login: please change your password.")
	}
	return r(ctx, p, opts, out)
}

type view[T models.Record] struct {
	name    string
	fetch   listview.FetchFunc[T]
	columns []listview.Column[T]
}

type snapshot[T models.Record] struct {
	page    listview.Page[T]
	dataset export.Dataset
}

func show[T models.Record](ctx context.Context, p *portal.Portal, opts cliOptions, out io.Writer, v view[T]) error {
	loader := portal.NewLoader[T](p, v.name)
	done := make(chan error, 1)
	if err := p.Loop.Sync(ctx, func() {
		loader.OnLoaded(func(int) { done <- nil })
		loader.OnLoadFailed(func(err error) { done <- err })
	}); err != nil {
		return err
	}
	if err := loader.Load(ctx, v.fetch); err != nil {
		return err
	}

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	var snap snapshot[T]
	if err := p.Loop.Sync(ctx, func() {
		ctrl := loader.Controller()
		if opts.PageSize > 0 {
			ctrl.SetPageSize(opts.PageSize)
		}
		ctrl.ApplyFilter(listview.FilterSpec{Keyword: opts.Keyword, Field: opts.Field})
		ctrl.GoToPage(opts.Page - 1)
		snap.page = ctrl.Current()
		if opts.Export != "" {
			snap.dataset = listview.ExportDataset(ctrl, v.columns)
		}
	}); err != nil {
		return err
	}

	if err := printPage(out, snap.page, v.columns); err != nil {
		return err
	}
	if opts.Export == "" {
		return nil
	}
	return exportList(p, out, v.name, opts.Export, snap.dataset)
}

func printPage[T models.Record](out io.Writer, page listview.Page[T], columns []listview.Column[T]) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, "No")
	for _, col := range columns {
		headers = append(headers, col.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for i, record := range page.Records {
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, fmt.Sprint(page.FirstRow()+i))
		for _, col := range columns {
			cells = append(cells, col.Value(record))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "Page %d/%d (%d records)\n", page.Index+1, page.Count, page.Total)
	return err
}

func exportList(p *portal.Portal, out io.Writer, name, format string, data export.Dataset) error {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return err
	}
	body, err := renderer.Render(data, strings.ToUpper(name[:1])+name[1:])
	if err != nil {
		return fmt.Errorf("render %s export: %w", format, err)
	}
	saved, err := p.Downloads.Save(name+"."+renderer.Extension(), body)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Exported to %s\n", p.Downloads.Path(saved))
	return err
}
