package service

import (
	"sort"
	"time"

	"github.com/maheshrc27/approval-api/internal/models"
)

// GroupedPost is one creative asset scheduled for one or more clients. It is
// rebuilt from the post rows on every fetch and never stored.
type GroupedPost struct {
	Key               string              `json:"key"`
	ScheduledDate     time.Time           `json:"scheduled_date"`
	PostType          string              `json:"post_type"`
	Posts             []*models.Post      `json:"posts"`
	Clients           []*models.Client    `json:"clients"`
	BaseCaption       string              `json:"base_caption"`
	CaptionVariations map[string][]string `json:"caption_variations"`
	Status            string              `json:"status"`
	Images            []models.PostImage  `json:"images"`
}

// PostIDs returns the ids of every post row behind the group.
func (g *GroupedPost) PostIDs() []string {
	ids := make([]string, 0, len(g.Posts))
	for _, p := range g.Posts {
		ids = append(ids, p.ID)
	}
	return ids
}

// IsPending reports whether the group still needs reviewer attention.
func (g *GroupedPost) IsPending() bool {
	return g.Status == models.PostStatusPending || g.Status == models.PostStatusChangeRequested
}

// ReviewBoard is what a reviewer sees behind a share link.
type ReviewBoard struct {
	Client   *models.Client `json:"client"`
	Pending  []*GroupedPost `json:"pending"`
	Resolved []*GroupedPost `json:"resolved"`
}

// GroupKey identifies the creative a post belongs to: its scheduled instant
// and its primary image. Images must already be sorted by position.
func GroupKey(p *models.Post) string {
	return p.ScheduledDate.UTC().Format(time.RFC3339Nano) + "_" + p.Images[0].ImageURL
}

// GroupPosts collapses post rows that share a scheduled instant and primary
// image into one GroupedPost each. Posts without images are dropped. Groups
// are returned in first-seen order.
func GroupPosts(posts []*models.Post, clients map[string]*models.Client) []*GroupedPost {
	byKey := make(map[string]*GroupedPost)
	var order []*GroupedPost

	for _, post := range posts {
		if len(post.Images) == 0 {
			continue
		}

		images := make([]models.PostImage, len(post.Images))
		copy(images, post.Images)
		sort.SliceStable(images, func(i, j int) bool { return images[i].Position < images[j].Position })
		post.Images = images

		client := clientFor(post.ClientID, clients)
		key := GroupKey(post)

		group, seen := byKey[key]
		if !seen {
			group = &GroupedPost{
				Key:               key,
				ScheduledDate:     post.ScheduledDate.UTC(),
				PostType:          post.PostType,
				Posts:             []*models.Post{post},
				Clients:           []*models.Client{client},
				BaseCaption:       post.Caption,
				CaptionVariations: map[string][]string{post.Caption: {client.Label()}},
				Status:            post.Status,
				Images:            images,
			}
			byKey[key] = group
			order = append(order, group)
			continue
		}

		group.Posts = append(group.Posts, post)
		if _, ok := group.CaptionVariations[post.Caption]; !ok {
			group.CaptionVariations[post.Caption] = []string{}
		}
		if !hasClient(group.Clients, client.ID) {
			group.Clients = append(group.Clients, client)
			group.CaptionVariations[post.Caption] = append(group.CaptionVariations[post.Caption], client.Label())
		}
		group.Status = reconcileStatus(group.Status, post.Status)
	}

	return order
}

// reconcileStatus folds the next post's status into the group's status:
// change_requested beats pending, pending beats everything else, and any other
// combination takes the latest post's status.
func reconcileStatus(current, next string) string {
	switch {
	case current == models.PostStatusChangeRequested || next == models.PostStatusChangeRequested:
		return models.PostStatusChangeRequested
	case current == models.PostStatusPending || next == models.PostStatusPending:
		return models.PostStatusPending
	default:
		return next
	}
}

// PartitionGroups splits groups into the ones awaiting review and the rest,
// each ordered by scheduled date.
func PartitionGroups(groups []*GroupedPost) (pending, resolved []*GroupedPost) {
	pending = []*GroupedPost{}
	resolved = []*GroupedPost{}
	for _, g := range groups {
		if g.IsPending() {
			pending = append(pending, g)
		} else {
			resolved = append(resolved, g)
		}
	}

	byDate := func(list []*GroupedPost) func(i, j int) bool {
		return func(i, j int) bool { return list[i].ScheduledDate.Before(list[j].ScheduledDate) }
	}
	sort.SliceStable(pending, byDate(pending))
	sort.SliceStable(resolved, byDate(resolved))
	return pending, resolved
}

// BuildBoard groups and partitions posts for the given link owner.
func BuildBoard(owner *models.Client, posts []*models.Post, clients map[string]*models.Client) *ReviewBoard {
	pending, resolved := PartitionGroups(GroupPosts(posts, clients))
	return &ReviewBoard{Client: owner, Pending: pending, Resolved: resolved}
}

// FindGroup returns the group with the given key, or nil.
func (b *ReviewBoard) FindGroup(key string) *GroupedPost {
	for _, list := range [][]*GroupedPost{b.Pending, b.Resolved} {
		for _, g := range list {
			if g.Key == key {
				return g
			}
		}
	}
	return nil
}

func clientFor(id string, clients map[string]*models.Client) *models.Client {
	if c, ok := clients[id]; ok && c != nil {
		return c
	}
	return &models.Client{ID: id, Name: id}
}

func hasClient(clients []*models.Client, id string) bool {
	for _, c := range clients {
		if c.ID == id {
			return true
		}
	}
	return false
}
