package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"
)

// Client reads action cards from one column of a GitHub classic project
type Client struct {
	gh        *github.Client
	owner     string
	projectID string // trailing path segment of the project html_url
	column    string
	project   *github.Project
	log       zerolog.Logger
}

// NewClient creates a new board client. The token may be empty for
// public boards.
func NewClient(token, owner, projectID, columnName string, log zerolog.Logger) *Client {
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Client{
		gh:        gh,
		owner:     owner,
		projectID: projectID,
		column:    columnName,
		log:       log,
	}
}

// SetBaseURL points the client at a different API endpoint (tests)
func (c *Client) SetBaseURL(baseURL string) error {
	parsed, err := c.gh.BaseURL.Parse(baseURL)
	if err != nil {
		return err
	}
	c.gh.BaseURL = parsed
	return nil
}

// ResolveProject finds the configured project among the owner's
// projects. A missing project is a startup-fatal condition for the bot.
func (c *Client) ResolveProject(ctx context.Context) error {
	opts := &github.ProjectListOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		projects, resp, err := c.gh.Organizations.ListProjects(ctx, c.owner, opts)
		if err != nil {
			return fmt.Errorf("list projects for %s: %w", c.owner, err)
		}
		for _, project := range projects {
			c.log.Debug().Str("url", project.GetHTMLURL()).Msg("found project")
			if strings.HasSuffix(project.GetHTMLURL(), "/"+c.projectID) {
				c.project = project
				c.log.Info().Int64("id", project.GetID()).Str("url", project.GetHTMLURL()).Msg("resolved retro project")
				return nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return fmt.Errorf("missing retro project %q under %s", c.projectID, c.owner)
}

// ListColumnCards returns the note text of every card in the configured
// column, in column order. Cards without a note (issue-backed cards) are
// skipped.
func (c *Client) ListColumnCards(ctx context.Context) ([]string, error) {
	if c.project == nil {
		return nil, errors.New("project not resolved")
	}

	columns, _, err := c.gh.Projects.ListProjectColumns(ctx, c.project.GetID(), &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("list project columns: %w", err)
	}
	var column *github.ProjectColumn
	for _, col := range columns {
		if col.GetName() == c.column {
			column = col
			break
		}
	}
	if column == nil {
		return nil, fmt.Errorf("column %q not found in project %s", c.column, c.projectID)
	}

	var notes []string
	opts := &github.ProjectCardListOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		cards, resp, err := c.gh.Projects.ListProjectCards(ctx, column.GetID(), opts)
		if err != nil {
			return nil, fmt.Errorf("list cards in %q: %w", c.column, err)
		}
		for _, card := range cards {
			if card.Note != nil {
				notes = append(notes, card.GetNote())
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return notes, nil
}
