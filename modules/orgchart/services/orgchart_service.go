package services

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
	"github.com/simple-lms/console/modules/orgchart/infrastructure/export"
	"github.com/simple-lms/console/modules/orgchart/presentation/render"
	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/types"
)

const OrgChartAuthzObject = types.ModuleOrgChart

var authorizeOrgChartFn = defaultAuthorizeOrgChart

func defaultAuthorizeOrgChart(ctx context.Context, az coreservices.Authorizer, action string) error {
	if az == nil {
		return nil
	}
	return az.AuthorizeActor(ctx, authz.ObjectName(OrgChartAuthzObject), authz.NormalizeAction(action))
}

type Options struct {
	Title        string
	LinesPerPage int
	MaxDepth     int
}

type OrgChartService struct {
	users      user.Repository
	roles      role.Repository
	locations  location.Repository
	authorizer coreservices.Authorizer
	opts       Options
	logger     *logrus.Entry
	now        func() time.Time
}

func NewOrgChartService(
	users user.Repository,
	roles role.Repository,
	locations location.Repository,
	authorizer coreservices.Authorizer,
	opts Options,
	logger *logrus.Logger,
) *OrgChartService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.Title == "" {
		opts.Title = "Org Chart"
	}
	if opts.LinesPerPage <= 0 {
		opts.LinesPerPage = export.DefaultLinesPerPage
	}
	return &OrgChartService{
		users:      users,
		roles:      roles,
		locations:  locations,
		authorizer: authorizer,
		opts:       opts,
		logger:     logger.WithField("component", "orgchart"),
		now:        time.Now,
	}
}

// People maps users onto org chart persons in repository order.
func (s *OrgChartService) People(ctx context.Context) ([]hierarchy.Person, error) {
	if err := authorizeOrgChartFn(ctx, s.authorizer, "view"); err != nil {
		return nil, err
	}
	return s.people(ctx)
}

func (s *OrgChartService) people(ctx context.Context) ([]hierarchy.Person, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	roleNames := map[string]string{}
	if s.roles != nil {
		roles, err := s.roles.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range roles {
			roleNames[r.ID] = r.Name
		}
	}
	out := make([]hierarchy.Person, 0, len(users))
	for _, u := range users {
		out = append(out, coreservices.ToPerson(u, roleNames[u.RoleID]))
	}
	return out, nil
}

// Forest filters, validates and builds the chart.
func (s *OrgChartService) Forest(ctx context.Context, f hierarchy.Filter) ([]*hierarchy.Node, error) {
	if err := authorizeOrgChartFn(ctx, s.authorizer, "view"); err != nil {
		return nil, err
	}
	return s.forest(ctx, f)
}

func (s *OrgChartService) forest(ctx context.Context, f hierarchy.Filter) ([]*hierarchy.Node, error) {
	start := time.Now()
	people, err := s.people(ctx)
	if err != nil {
		forestBuilds.WithLabelValues("error").Inc()
		return nil, err
	}
	people = f.Apply(people)
	if err := hierarchy.Validate(people); err != nil {
		forestBuilds.WithLabelValues("invalid").Inc()
		s.logger.WithContext(ctx).WithError(err).Warn("org chart input rejected")
		return nil, err
	}
	forest := hierarchy.BuildForest(people)
	forestBuilds.WithLabelValues("ok").Inc()
	forestBuildDuration.Observe(time.Since(start).Seconds())
	forestPeople.Set(float64(len(people)))
	return forest, nil
}

// DefaultDepth asks Render for the configured Options.MaxDepth.
const DefaultDepth = -1

// Render draws the chart as text. A MaxDepth of DefaultDepth uses the
// service default; zero is unlimited.
func (s *OrgChartService) Render(ctx context.Context, f hierarchy.Filter, opts render.Options) (string, error) {
	forest, err := s.Forest(ctx, f)
	if err != nil {
		return "", err
	}
	if opts.MaxDepth == DefaultDepth {
		opts.MaxDepth = s.opts.MaxDepth
	}
	return render.Text(forest, opts), nil
}

func (s *OrgChartService) ExportPDF(ctx context.Context, w io.Writer, f hierarchy.Filter) error {
	if err := authorizeOrgChartFn(ctx, s.authorizer, "export"); err != nil {
		return err
	}
	forest, err := s.forest(ctx, f)
	if err != nil {
		return err
	}
	return export.WritePDF(w, s.opts.Title, hierarchy.Flatten(forest), export.PDFOptions{
		LinesPerPage: s.opts.LinesPerPage,
		CreatedAt:    s.now(),
	})
}

func (s *OrgChartService) ExportXLSX(ctx context.Context, w io.Writer, f hierarchy.Filter) error {
	if err := authorizeOrgChartFn(ctx, s.authorizer, "export"); err != nil {
		return err
	}
	forest, err := s.forest(ctx, f)
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, hierarchy.Flatten(forest))
}

type LocationCount struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

type Stats struct {
	People      int             `json:"people"`
	Roots       int             `json:"roots"`
	MaxDepth    int             `json:"maxDepth"`
	Managers    int             `json:"managers"`
	WidestSpan  int             `json:"widestSpan"`
	AverageSpan decimal.Decimal `json:"averageSpan"`
	ByLocation  []LocationCount `json:"byLocation"`
}

// Stats summarizes the filtered chart. AverageSpan counts direct reports per
// manager and is rounded to two places. People without a location are
// counted under an empty LocationID.
func (s *OrgChartService) Stats(ctx context.Context, f hierarchy.Filter) (Stats, error) {
	forest, err := s.Forest(ctx, f)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Roots: len(forest), AverageSpan: decimal.Zero}
	reports := 0
	counts := map[string]int{}
	_ = hierarchy.Walk(forest, func(n *hierarchy.Node, depth int) error {
		st.People++
		if depth+1 > st.MaxDepth {
			st.MaxDepth = depth + 1
		}
		if span := len(n.Children); span > 0 {
			st.Managers++
			reports += span
			st.WidestSpan = max(st.WidestSpan, span)
		}
		loc := ""
		if n.Person.LocationID != nil {
			loc = *n.Person.LocationID
		}
		counts[loc]++
		return nil
	})
	if st.Managers > 0 {
		st.AverageSpan = decimal.NewFromInt(int64(reports)).
			Div(decimal.NewFromInt(int64(st.Managers))).
			Round(2)
	}

	names := map[string]string{}
	if s.locations != nil {
		locs, err := s.locations.List(ctx)
		if err != nil {
			return Stats{}, err
		}
		for _, l := range locs {
			names[l.ID] = l.Name
		}
	}
	st.ByLocation = make([]LocationCount, 0, len(counts))
	for id, n := range counts {
		st.ByLocation = append(st.ByLocation, LocationCount{LocationID: id, Name: names[id], Count: n})
	}
	sort.Slice(st.ByLocation, func(i, j int) bool {
		a, b := st.ByLocation[i], st.ByLocation[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.LocationID < b.LocationID
	})
	return st, nil
}
