package repository

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/compozy/effortsync/internal/domain"
)

// ItemPageSize is the fixed page size for project item listing.
const ItemPageSize = 100

// projectRepository implements ProjectRepository against the GraphQL API.
// Projects v2 has no REST surface, so everything here is GraphQL.
type projectRepository struct {
	client *githubv4.Client
}

type orgProjectsQuery struct {
	Organization struct {
		ProjectsV2 struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				ID     string
				Title  string
				Number int
				Closed bool
			}
		} `graphql:"projectsV2(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

type projectFieldsQuery struct {
	Node struct {
		ProjectV2 struct {
			Fields struct {
				PageInfo struct {
					HasNextPage bool
					EndCursor   githubv4.String
				}
				Nodes []struct {
					Common struct {
						ID       string
						Name     string
						DataType string
					} `graphql:"... on ProjectV2FieldCommon"`
					SingleSelect struct {
						Options []struct {
							ID   string
							Name string
						}
					} `graphql:"... on ProjectV2SingleSelectField"`
				}
			} `graphql:"fields(first: 100, after: $cursor)"`
		} `graphql:"... on ProjectV2"`
	} `graphql:"node(id: $projectId)"`
}

type projectItemsQuery struct {
	Node struct {
		ProjectV2 struct {
			Items struct {
				PageInfo struct {
					HasNextPage bool
					EndCursor   githubv4.String
				}
				Nodes []struct {
					ID      string
					Content struct {
						Typename string `graphql:"__typename"`
						Issue    struct {
							ID     string
							Number int
							Title  string
							Body   string
							URL    string
						} `graphql:"... on Issue"`
						PullRequest struct {
							Title string
							Body  string
						} `graphql:"... on PullRequest"`
					}
				}
			} `graphql:"items(first: 100, after: $cursor)"`
		} `graphql:"... on ProjectV2"`
	} `graphql:"node(id: $projectId)"`
}

// ListProjects returns every project of the organization, following the
// cursor until the API reports no further pages.
func (r *projectRepository) ListProjects(ctx context.Context, org string) ([]domain.Project, error) {
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	var projects []domain.Project
	for {
		var q orgProjectsQuery
		if err := r.client.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to list projects for org %s: %w", org, err)
		}
		for _, node := range q.Organization.ProjectsV2.Nodes {
			projects = append(projects, domain.Project{
				ID:     node.ID,
				Title:  node.Title,
				Number: node.Number,
				Closed: node.Closed,
			})
		}
		if !q.Organization.ProjectsV2.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.ProjectsV2.PageInfo.EndCursor)
	}
	return projects, nil
}

// ListFields returns the project's custom field definitions, including the
// options of single-select fields.
func (r *projectRepository) ListFields(ctx context.Context, projectID string) ([]domain.ProjectField, error) {
	variables := map[string]interface{}{
		"projectId": githubv4.ID(projectID),
		"cursor":    (*githubv4.String)(nil),
	}
	var fields []domain.ProjectField
	for {
		var q projectFieldsQuery
		if err := r.client.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to list fields for project %s: %w", projectID, err)
		}
		for _, node := range q.Node.ProjectV2.Fields.Nodes {
			field := domain.ProjectField{
				ID:       node.Common.ID,
				Name:     node.Common.Name,
				DataType: node.Common.DataType,
			}
			for _, opt := range node.SingleSelect.Options {
				field.Options = append(field.Options, domain.FieldOption{ID: opt.ID, Name: opt.Name})
			}
			fields = append(fields, field)
		}
		if !q.Node.ProjectV2.Fields.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Node.ProjectV2.Fields.PageInfo.EndCursor)
	}
	return fields, nil
}

// ListItems returns a single page of project items after the given cursor.
// Callers own the pagination loop and its termination guarantees.
func (r *projectRepository) ListItems(ctx context.Context, projectID, cursor string) (*ProjectItemPage, error) {
	variables := map[string]interface{}{
		"projectId": githubv4.ID(projectID),
		"cursor":    (*githubv4.String)(nil),
	}
	if cursor != "" {
		variables["cursor"] = githubv4.NewString(githubv4.String(cursor))
	}
	var q projectItemsQuery
	if err := r.client.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to list items for project %s: %w", projectID, err)
	}
	page := &ProjectItemPage{
		EndCursor:   string(q.Node.ProjectV2.Items.PageInfo.EndCursor),
		HasNextPage: q.Node.ProjectV2.Items.PageInfo.HasNextPage,
	}
	for _, node := range q.Node.ProjectV2.Items.Nodes {
		item := domain.ProjectItem{
			ID:          node.ID,
			ContentType: node.Content.Typename,
		}
		switch node.Content.Typename {
		case "Issue":
			item.Title = node.Content.Issue.Title
			item.Body = node.Content.Issue.Body
			item.IssueNumber = node.Content.Issue.Number
			item.IssueNodeID = node.Content.Issue.ID
			item.IssueURL = node.Content.Issue.URL
		case "PullRequest":
			item.Title = node.Content.PullRequest.Title
			item.Body = node.Content.PullRequest.Body
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// AddItem attaches the content node to the project.
func (r *projectRepository) AddItem(ctx context.Context, projectID, contentID string) (string, error) {
	var m struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentID),
	}
	if err := r.client.Mutate(ctx, &m, input, nil); err != nil {
		return "", fmt.Errorf("failed to add item to project %s: %w", projectID, err)
	}
	return m.AddProjectV2ItemByID.Item.ID, nil
}

// UpdateNumberField writes a numeric field value on a project item.
func (r *projectRepository) UpdateNumberField(
	ctx context.Context,
	projectID, itemID, fieldID string,
	value float64,
) error {
	return r.updateFieldValue(ctx, projectID, itemID, fieldID, githubv4.ProjectV2FieldValue{
		Number: githubv4.NewFloat(githubv4.Float(value)),
	})
}

// UpdateTextField writes a text field value on a project item.
func (r *projectRepository) UpdateTextField(
	ctx context.Context,
	projectID, itemID, fieldID, value string,
) error {
	return r.updateFieldValue(ctx, projectID, itemID, fieldID, githubv4.ProjectV2FieldValue{
		Text: githubv4.NewString(githubv4.String(value)),
	})
}

// UpdateSelectField writes a single-select option on a project item.
func (r *projectRepository) UpdateSelectField(
	ctx context.Context,
	projectID, itemID, fieldID, optionID string,
) error {
	return r.updateFieldValue(ctx, projectID, itemID, fieldID, githubv4.ProjectV2FieldValue{
		SingleSelectOptionID: githubv4.NewString(githubv4.String(optionID)),
	})
}

func (r *projectRepository) updateFieldValue(
	ctx context.Context,
	projectID, itemID, fieldID string,
	value githubv4.ProjectV2FieldValue,
) error {
	var m struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID string
			}
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
		Value:     value,
	}
	if err := r.client.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("failed to update field %s on item %s: %w", fieldID, itemID, err)
	}
	return nil
}

// ResolveUserID looks up the node ID of a user login.
func (r *projectRepository) ResolveUserID(ctx context.Context, login string) (string, error) {
	var q struct {
		User struct {
			ID string
		} `graphql:"user(login: $login)"`
	}
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := r.client.Query(ctx, &q, variables); err != nil {
		return "", fmt.Errorf("failed to resolve user %s: %w", login, err)
	}
	return q.User.ID, nil
}
