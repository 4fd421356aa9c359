package repos

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

// ListFilter carries the list query knobs. SortBy/SortOrder are matched
// against a closed whitelist here; anything else falls back to id ASC so
// caller input never reaches the query text.
type ListFilter struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"category":   "category",
	"price":      "price",
	"quantity":   "quantity",
	"created_at": "created_at",
}

const itemCols = `id, name, description, category, price, quantity, created_at, updated_at`

// List returns one page of items plus the total row count matching the
// filters (pre-pagination).
func (r *ItemRepo) List(f ListFilter) ([]domain.Item, int, error) {
	where := `1=1`
	args := []any{}

	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		where += ` AND (LOWER(name) LIKE ? OR LOWER(COALESCE(description,'')) LIKE ?)`
		args = append(args, term, term)
	}

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM items WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[strings.ToLower(f.SortBy)]
	dir := strings.ToUpper(f.SortOrder)
	if !ok || (dir != "ASC" && dir != "DESC") {
		col, dir = "id", "ASC"
	}

	q := `SELECT ` + itemCols + ` FROM items WHERE ` + where +
		` ORDER BY ` + col + ` ` + dir + ` LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	out := []domain.Item{}
	if err := r.db.Select(&out, q, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ItemRepo) Get(id int64) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.ErrNotFound
	}
	return it, err
}

func (r *ItemRepo) Create(c domain.ItemChange) (domain.Item, error) {
	var qty int64
	if c.Quantity.Set && !c.Quantity.Null {
		qty = c.Quantity.Value
	}
	res, err := r.db.Exec(`
		INSERT INTO items(name, description, category, price, quantity)
		VALUES (?, ?, ?, ?, ?)
	`, c.Name.Value, stringArg(c.Description), stringArg(c.Category), floatArg(c.Price), qty)
	if err != nil {
		return domain.Item{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Item{}, err
	}
	return r.Get(id)
}

// Update writes exactly the fields present in the change set. The schema
// trigger refreshes updated_at as part of the same write. A vanished id
// surfaces as ErrNotFound rather than corrupting anything, so no explicit
// existence check is needed.
func (r *ItemRepo) Update(id int64, c domain.ItemChange) (domain.Item, error) {
	set := []string{}
	args := []any{}

	if c.Name.Set {
		set = append(set, `name = ?`)
		args = append(args, c.Name.Value)
	}
	if c.Description.Set {
		set = append(set, `description = ?`)
		args = append(args, stringArg(c.Description))
	}
	if c.Category.Set {
		set = append(set, `category = ?`)
		args = append(args, stringArg(c.Category))
	}
	if c.Price.Set {
		set = append(set, `price = ?`)
		args = append(args, floatArg(c.Price))
	}
	if c.Quantity.Set {
		var qty int64
		if !c.Quantity.Null {
			qty = c.Quantity.Value
		}
		set = append(set, `quantity = ?`)
		args = append(args, qty)
	}

	args = append(args, id)
	res, err := r.db.Exec(`UPDATE items SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Item{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Item{}, domain.ErrNotFound
	}
	return r.Get(id)
}

func (r *ItemRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Categories returns the distinct non-null categories, ascending.
func (r *ItemRepo) Categories() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `SELECT DISTINCT category FROM items WHERE category IS NOT NULL ORDER BY category`)
	return out, err
}

// Ping issues a trivial query to verify store connectivity.
func (r *ItemRepo) Ping() error {
	var one int
	return r.db.Get(&one, `SELECT 1`)
}

func stringArg(o domain.OptString) any {
	if o.Set && !o.Null {
		return o.Value
	}
	return nil
}

func floatArg(o domain.OptFloat) any {
	if o.Set && !o.Null {
		return o.Value
	}
	return nil
}
