package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quillpress/internal/db"
)

func TestPostService_CreateDerivesUniqueSlug(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-create")
	svc := NewPostService(gdb)
	admin := seedUser(t, gdb, "adminuser", true)

	first, err := svc.Create(PostInput{UserID: admin.ID, Title: "Hello World", Content: "<p>first</p>"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(PostInput{UserID: admin.ID, Title: "Hello World", Content: "<p>second</p>"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.Slug != "hello-world" {
		t.Fatalf("expected hello-world, got %q", first.Slug)
	}
	if second.Slug != "hello-world-2" {
		t.Fatalf("expected hello-world-2, got %q", second.Slug)
	}
	if first.Category != db.DefaultPostCategory || first.Image != db.DefaultPostImage {
		t.Fatalf("expected defaults, got category=%q image=%q", first.Category, first.Image)
	}
	if first.ReadingTime != 1 {
		t.Fatalf("expected reading time 1, got %d", first.ReadingTime)
	}
	if string(first.Likes) != "[]" || first.NumberOfLikes != 0 {
		t.Fatalf("expected empty like-set, got %s", first.Likes)
	}
}

func TestPostService_CreateValidation(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-validate")
	svc := NewPostService(gdb)
	admin := seedUser(t, gdb, "adminuser", true)

	tests := []struct {
		name  string
		input PostInput
	}{
		{name: "missing title", input: PostInput{UserID: admin.ID, Content: "body"}},
		{name: "missing content", input: PostInput{UserID: admin.ID, Title: "Title"}},
		{name: "content sanitized to nothing", input: PostInput{UserID: admin.ID, Title: "Title", Content: "<script>alert(1)</script>"}},
		{name: "title too long", input: PostInput{UserID: admin.ID, Title: strings.Repeat("t", 201), Content: "body"}},
		{name: "unknown format", input: PostInput{UserID: admin.ID, Title: "Title", Content: "body", Format: "docx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPostService_UpdateKeepsSlugUnlessTitleChanges(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-update")
	svc := NewPostService(gdb)
	admin := seedUser(t, gdb, "adminuser", true)

	post, err := svc.Create(PostInput{UserID: admin.ID, Title: "Original Title", Content: "<p>body</p>", Category: "Go"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	content := "## Changed\n\nbody"
	updated, err := svc.Update(post.ID, PostPatch{Content: &content, Format: ContentFormatMarkdown})
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if updated.Slug != "original-title" {
		t.Fatalf("slug must not change with content, got %q", updated.Slug)
	}
	if !strings.Contains(updated.Content, "<h2>Changed</h2>") {
		t.Fatalf("expected markdown rendered, got %q", updated.Content)
	}
	if updated.Category != "go" {
		t.Fatalf("category must be untouched, got %q", updated.Category)
	}

	title := "Brand New Title"
	updated, err = svc.Update(post.ID, PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if updated.Slug != "brand-new-title" || updated.Title != title {
		t.Fatalf("expected re-derived slug, got %q", updated.Slug)
	}

	same := "Brand New Title"
	updated, err = svc.Update(post.ID, PostPatch{Title: &same})
	if err != nil {
		t.Fatalf("update same title: %v", err)
	}
	if updated.Slug != "brand-new-title" {
		t.Fatalf("expected slug kept, got %q", updated.Slug)
	}
}

func TestPostService_UpdateMissing(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-update-missing")
	svc := NewPostService(gdb)

	title := "anything"
	if _, err := svc.Update(999, PostPatch{Title: &title}); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_DeleteIsHardAndNotIdempotent(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-delete")
	svc := NewPostService(gdb)
	admin := seedUser(t, gdb, "adminuser", true)

	post, err := svc.Create(PostInput{UserID: admin.ID, Title: "Doomed", Content: "<p>bye</p>"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	comment := db.Comment{PostID: post.ID, UserID: admin.ID, Content: "still here"}
	if err := gdb.Create(&comment).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	if err := svc.Delete(post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on repeated delete, got %v", err)
	}

	var remaining int64
	gdb.Model(&db.Post{}).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected post row removed, got %d", remaining)
	}

	var comments int64
	gdb.Model(&db.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	if comments != 1 {
		t.Fatalf("expected orphaned comment to remain, got %d", comments)
	}
}

func TestPostService_ListFiltersAndCounters(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-list")
	svc := NewPostService(gdb)
	admin := seedUser(t, gdb, "adminuser", true)
	other := seedUser(t, gdb, "otheruser", true)

	inputs := []PostInput{
		{UserID: admin.ID, Title: "Go Generics", Content: "<p>type parameters</p>", Category: "go"},
		{UserID: admin.ID, Title: "Go Channels", Content: "<p>select statements</p>", Category: "go"},
		{UserID: other.ID, Title: "React Hooks", Content: "<p>useEffect</p>", Category: "react"},
	}
	var created []*db.Post
	for _, input := range inputs {
		post, err := svc.Create(input)
		if err != nil {
			t.Fatalf("create %q: %v", input.Title, err)
		}
		created = append(created, post)
		time.Sleep(5 * time.Millisecond)
	}

	old := created[2]
	longAgo := time.Now().AddDate(0, -3, 0)
	if err := gdb.Model(&db.Post{}).Where("id = ?", old.ID).UpdateColumn("created_at", longAgo).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	all, err := svc.List(PostFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 3 || all.LastMonth != 2 {
		t.Fatalf("expected total=3 lastMonth=2, got %d/%d", all.Total, all.LastMonth)
	}
	if len(all.Posts) != 3 || all.Posts[0].ID != created[2].ID {
		t.Fatalf("expected newest updated first, got %+v", all.Posts)
	}

	asc, err := svc.List(PostFilter{Order: "asc"})
	if err != nil {
		t.Fatalf("list asc: %v", err)
	}
	if asc.Posts[0].ID != created[0].ID {
		t.Fatalf("expected oldest first, got id %d", asc.Posts[0].ID)
	}

	byCategory, err := svc.List(PostFilter{Category: "go"})
	if err != nil {
		t.Fatalf("list category: %v", err)
	}
	if len(byCategory.Posts) != 2 {
		t.Fatalf("expected 2 go posts, got %d", len(byCategory.Posts))
	}
	if byCategory.Total != 3 {
		t.Fatalf("total counts every post, got %d", byCategory.Total)
	}

	search, err := svc.List(PostFilter{Search: "SELECT"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if len(search.Posts) != 1 || search.Posts[0].Title != "Go Channels" {
		t.Fatalf("expected case-insensitive content match, got %+v", search.Posts)
	}

	byUser, err := svc.List(PostFilter{UserID: other.ID})
	if err != nil {
		t.Fatalf("list user: %v", err)
	}
	if len(byUser.Posts) != 1 || byUser.Posts[0].UserID != other.ID {
		t.Fatalf("expected only the other user's post, got %+v", byUser.Posts)
	}

	bySlug, err := svc.List(PostFilter{Slug: "go-generics"})
	if err != nil {
		t.Fatalf("list slug: %v", err)
	}
	if len(bySlug.Posts) != 1 || bySlug.Posts[0].ID != created[0].ID {
		t.Fatalf("expected slug match, got %+v", bySlug.Posts)
	}

	page, err := svc.List(PostFilter{Window: Window{StartIndex: 1, Limit: 1}})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].ID != created[1].ID {
		t.Fatalf("expected second newest post, got %+v", page.Posts)
	}
}

func TestPostService_ListSearchMatchesWildcardsLiterally(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-search-literal")
	svc := NewPostService(gdb)
	admin := seedUser(t, gdb, "adminuser", true)

	for _, title := range []string{"100% pure", "1000 words", "snake_case", "snakeXcase"} {
		seedPost(t, svc, admin.ID, title)
	}

	tests := []struct {
		search string
		want   string
	}{
		{search: "100%", want: "100% pure"},
		{search: "e_c", want: "snake_case"},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			result, err := svc.List(PostFilter{Search: tt.search})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(result.Posts) != 1 || result.Posts[0].Title != tt.want {
				t.Fatalf("expected only %q, got %+v", tt.want, result.Posts)
			}
		})
	}
}

func TestPostService_RecordViewAndToggleLike(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-view-like")
	svc := NewPostService(gdb)
	admin := seedUser(t, gdb, "adminuser", true)
	reader := seedUser(t, gdb, "readeruser", false)

	post, err := svc.Create(PostInput{UserID: admin.ID, Title: "Popular", Content: "<p>read me</p>"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	viewed, err := svc.RecordView(post.ID)
	if err != nil {
		t.Fatalf("record view: %v", err)
	}
	if viewed.Views != 1 {
		t.Fatalf("expected 1 view, got %d", viewed.Views)
	}
	if _, err := svc.RecordView(12345); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	liked, err := svc.ToggleLike(post.ID, reader.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if liked.NumberOfLikes != 1 {
		t.Fatalf("expected 1 like, got %d", liked.NumberOfLikes)
	}
	unliked, err := svc.ToggleLike(post.ID, reader.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if unliked.NumberOfLikes != 0 || string(unliked.Likes) != "[]" {
		t.Fatalf("expected like-set restored, got %s", unliked.Likes)
	}
}
