package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/pkg/database"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for Postgres that enforces the same
// unique and foreign key constraints as the schema.
type memStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]entity.User
	codes       map[uuid.UUID]entity.ConfirmationCode
	catalogs    map[string]map[string]entity.Catalog
	titles      map[uuid.UUID]entity.Title
	titleGenres map[uuid.UUID][]string
	reviews     map[uuid.UUID]entity.Review
	comments    map[uuid.UUID]entity.Comment
}

func newMemRepo() (*repository.Repository, *memStore) {
	s := &memStore{
		users:       make(map[uuid.UUID]entity.User),
		codes:       make(map[uuid.UUID]entity.ConfirmationCode),
		catalogs:    map[string]map[string]entity.Catalog{"categories": {}, "genres": {}},
		titles:      make(map[uuid.UUID]entity.Title),
		titleGenres: make(map[uuid.UUID][]string),
		reviews:     make(map[uuid.UUID]entity.Review),
		comments:    make(map[uuid.UUID]entity.Comment),
	}
	return &repository.Repository{
		User:         &memUsers{s},
		Confirmation: &memCodes{s},
		Category:     &memCatalog{s, "categories"},
		Genre:        &memCatalog{s, "genres"},
		Title:        &memTitles{s},
		Review:       &memReviews{s},
		Comment:      &memComments{s},
	}, s
}

func violation(kind error, constraint string) error {
	return &database.ConstraintError{Kind: kind, Constraint: constraint, Err: errors.New(constraint)}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ---- users ----

type memUsers struct{ s *memStore }

func (m *memUsers) uniqueCheck(u *entity.User) error {
	for id, other := range m.s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return violation(database.ErrDuplicate, "users_username_key")
		}
		if other.Email == u.Email {
			return violation(database.ErrDuplicate, "users_email_key")
		}
	}
	return nil
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.uniqueCheck(u); err != nil {
		return err
	}
	m.s.users[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByUsernameOrEmail(_ context.Context, username, email string) ([]*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.User
	for _, u := range m.s.users {
		if u.Username == username || u.Email == email {
			u := u
			out = append(out, &u)
		}
	}
	return out, nil
}

func (m *memUsers) filtered(search string) []*entity.User {
	var out []*entity.User
	for _, u := range m.s.users {
		if search == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (m *memUsers) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return page(m.filtered(search), limit, offset), nil
}

func (m *memUsers) CountAll(_ context.Context, search string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.filtered(search))), nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := m.uniqueCheck(u); err != nil {
		return err
	}
	m.s.users[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.users, id)
	delete(m.s.codes, id)
	for rid, r := range m.s.reviews {
		if r.AuthorID == id {
			m.s.deleteReview(rid)
		}
	}
	for cid, c := range m.s.comments {
		if c.AuthorID == id {
			delete(m.s.comments, cid)
		}
	}
	return nil
}

// ---- confirmation codes ----

type memCodes struct{ s *memStore }

func (m *memCodes) Upsert(_ context.Context, c *entity.ConfirmationCode) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[c.UserID]; !ok {
		return violation(database.ErrForeignKey, "confirmation_codes_user_id_fkey")
	}
	m.s.codes[c.UserID] = *c
	return nil
}

func (m *memCodes) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.codes[userID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ---- categories and genres ----

type memCatalog struct {
	s     *memStore
	table string
}

func (m *memCatalog) Create(_ context.Context, item *entity.Catalog) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.catalogs[m.table][item.Slug]; ok {
		return violation(database.ErrDuplicate, m.table+"_pkey")
	}
	m.s.catalogs[m.table][item.Slug] = *item
	return nil
}

func (m *memCatalog) filtered(search string) []*entity.Catalog {
	var out []*entity.Catalog
	for _, item := range m.s.catalogs[m.table] {
		if search == "" || strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			item := item
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memCatalog) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Catalog, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return page(m.filtered(search), limit, offset), nil
}

func (m *memCatalog) CountAll(_ context.Context, search string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.filtered(search))), nil
}

func (m *memCatalog) Delete(_ context.Context, slug string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.catalogs[m.table][slug]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.catalogs[m.table], slug)

	switch m.table {
	case "categories":
		for id, t := range m.s.titles {
			if t.CategorySlug != nil && *t.CategorySlug == slug {
				t.CategorySlug = nil
				m.s.titles[id] = t
			}
		}
	case "genres":
		for id, slugs := range m.s.titleGenres {
			kept := slugs[:0]
			for _, g := range slugs {
				if g != slug {
					kept = append(kept, g)
				}
			}
			m.s.titleGenres[id] = kept
		}
	}
	return nil
}

// ---- titles ----

type memTitles struct{ s *memStore }

func (m *memTitles) checkRefs(t *entity.Title, genres []string) error {
	if t.CategorySlug != nil {
		if _, ok := m.s.catalogs["categories"][*t.CategorySlug]; !ok {
			return violation(database.ErrForeignKey, "fk_titles_category")
		}
	}
	for _, g := range genres {
		if _, ok := m.s.catalogs["genres"][g]; !ok {
			return violation(database.ErrForeignKey, "fk_genre_titles_genre")
		}
	}
	return nil
}

func (m *memTitles) Create(_ context.Context, t *entity.Title, genres []string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.checkRefs(t, genres); err != nil {
		return err
	}
	m.s.titles[t.ID] = *t
	m.s.titleGenres[t.ID] = append([]string(nil), genres...)
	return nil
}

func (m *memTitles) Update(_ context.Context, t *entity.Title, genres []string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.titles[t.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := m.checkRefs(t, genres); err != nil {
		return err
	}
	m.s.titles[t.ID] = *t
	m.s.titleGenres[t.ID] = append([]string(nil), genres...)
	return nil
}

func (m *memTitles) detail(t entity.Title) *entity.TitleDetail {
	d := &entity.TitleDetail{Title: t, Genres: make([]*entity.Genre, 0)}
	if t.CategorySlug != nil {
		if c, ok := m.s.catalogs["categories"][*t.CategorySlug]; ok {
			d.Category = &c
		}
	}
	for _, slug := range m.s.titleGenres[t.ID] {
		if g, ok := m.s.catalogs["genres"][slug]; ok {
			g := g
			d.Genres = append(d.Genres, &g)
		}
	}
	sum, n := 0, 0
	for _, r := range m.s.reviews {
		if r.TitleID == t.ID {
			sum += r.Score
			n++
		}
	}
	if n > 0 {
		avg := float64(sum) / float64(n)
		d.Rating = &avg
	}
	return d
}

func (m *memTitles) FindByID(_ context.Context, id uuid.UUID) (*entity.TitleDetail, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.titles[id]
	if !ok {
		return nil, nil
	}
	return m.detail(t), nil
}

func (m *memTitles) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.titles[id]
	return ok, nil
}

func (m *memTitles) filtered(f repository.TitleFilter) []*entity.TitleDetail {
	var out []*entity.TitleDetail
	for _, t := range m.s.titles {
		if f.Category != "" && (t.CategorySlug == nil || *t.CategorySlug != f.Category) {
			continue
		}
		if f.Year != nil && t.Year != *f.Year {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Genre != "" {
			found := false
			for _, g := range m.s.titleGenres[t.ID] {
				found = found || g == f.Genre
			}
			if !found {
				continue
			}
		}
		out = append(out, m.detail(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memTitles) FindAll(_ context.Context, f repository.TitleFilter, limit, offset int) ([]*entity.TitleDetail, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return page(m.filtered(f), limit, offset), nil
}

func (m *memTitles) CountAll(_ context.Context, f repository.TitleFilter) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.filtered(f))), nil
}

func (m *memTitles) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.titles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.titles, id)
	delete(m.s.titleGenres, id)
	for rid, r := range m.s.reviews {
		if r.TitleID == id {
			m.s.deleteReview(rid)
		}
	}
	return nil
}

// ---- reviews ----

func (s *memStore) deleteReview(id uuid.UUID) {
	delete(s.reviews, id)
	for cid, c := range s.comments {
		if c.ReviewID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *memStore) withUsername(r entity.Review) *entity.Review {
	r.AuthorUsername = s.users[r.AuthorID].Username
	return &r
}

type memReviews struct{ s *memStore }

func (m *memReviews) Create(_ context.Context, r *entity.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.titles[r.TitleID]; !ok {
		return violation(database.ErrForeignKey, "reviews_title_id_fkey")
	}
	for _, other := range m.s.reviews {
		if other.TitleID == r.TitleID && other.AuthorID == r.AuthorID {
			return violation(database.ErrDuplicate, "unique_review")
		}
	}
	m.s.reviews[r.ID] = *r
	return nil
}

func (m *memReviews) FindByID(_ context.Context, titleID, id uuid.UUID) (*entity.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reviews[id]
	if !ok || r.TitleID != titleID {
		return nil, nil
	}
	return m.s.withUsername(r), nil
}

func (m *memReviews) byTitle(titleID uuid.UUID) []*entity.Review {
	var out []*entity.Review
	for _, r := range m.s.reviews {
		if r.TitleID == titleID {
			out = append(out, m.s.withUsername(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	return out
}

func (m *memReviews) FindByTitleID(_ context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return page(m.byTitle(titleID), limit, offset), nil
}

func (m *memReviews) FindByTitleAndAuthor(_ context.Context, titleID, authorID uuid.UUID) (*entity.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return m.s.withUsername(r), nil
		}
	}
	return nil, nil
}

func (m *memReviews) CountByTitleID(_ context.Context, titleID uuid.UUID) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.byTitle(titleID))), nil
}

func (m *memReviews) Update(_ context.Context, r *entity.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.reviews[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Text, stored.Score = r.Text, r.Score
	m.s.reviews[r.ID] = stored
	return nil
}

func (m *memReviews) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	m.s.deleteReview(id)
	return nil
}

// ---- comments ----

type memComments struct{ s *memStore }

func (m *memComments) Create(_ context.Context, c *entity.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.reviews[c.ReviewID]; !ok {
		return violation(database.ErrForeignKey, "comments_review_id_fkey")
	}
	m.s.comments[c.ID] = *c
	return nil
}

func (m *memComments) FindByID(_ context.Context, reviewID, id uuid.UUID) (*entity.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, nil
	}
	c.AuthorUsername = m.s.users[c.AuthorID].Username
	return &c, nil
}

func (m *memComments) byReview(reviewID uuid.UUID) []*entity.Comment {
	var out []*entity.Comment
	for _, c := range m.s.comments {
		if c.ReviewID == reviewID {
			c := c
			c.AuthorUsername = m.s.users[c.AuthorID].Username
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PubDate.Before(out[j].PubDate) })
	return out
}

func (m *memComments) FindByReviewID(_ context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return page(m.byReview(reviewID), limit, offset), nil
}

func (m *memComments) CountByReviewID(_ context.Context, reviewID uuid.UUID) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.byReview(reviewID))), nil
}

func (m *memComments) Update(_ context.Context, c *entity.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.comments[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Text = c.Text
	m.s.comments[c.ID] = stored
	return nil
}

func (m *memComments) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.comments, id)
	return nil
}

// ---- mailer ----

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func (f *fakeMailer) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}
