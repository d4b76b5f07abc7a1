package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/presmtech/storefront/internal/errors"
	"github.com/presmtech/storefront/product/pkg/model"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

const insertProduct = `
insert into products
	(id, name, category, price, image, images, description, features, sizes,
	 min_quantity, max_quantity, inventory, status, variants,
	 created_at, updated_at)
values
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

func (s *postgresStore) Insert(c context.Context, product *model.Product) error {
	images, features, sizes, variants, err := marshalDetails(product)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(
		c,
		insertProduct,
		product.ID,
		product.Name,
		product.Category,
		numeric(product.Price),
		product.Image,
		images,
		product.Description,
		features,
		sizes,
		product.MinQuantity,
		product.MaxQuantity,
		product.Inventory,
		string(product.Status),
		variants,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed inserting product with error=%w", err)
	}
	return nil
}

const findProductById = `
select id, name, category, price, image, images, description, features, sizes,
	min_quantity, max_quantity, inventory, status, variants,
	created_at, updated_at
from products
where id = $1
`

func (s *postgresStore) FindById(c context.Context, id uuid.UUID) (*model.Product, error) {
	row := s.pool.QueryRow(c, findProductById, id)
	product, err := scanProduct(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("productId=%s with error=%w", id.String(), errors.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed finding product with error=%w", err)
	}
	return product, nil
}

const findProducts = `
select id, name, category, price, image, images, description, features, sizes,
	min_quantity, max_quantity, inventory, status, variants,
	created_at, updated_at
from products
where ($1 = '' or category = $1)
	and ($2 = '' or status = $2)
	and ($3 = '' or name ilike '%' || $3 || '%' or description ilike '%' || $3 || '%')
order by created_at desc
offset $4 limit $5
`

func (s *postgresStore) Find(c context.Context, filter Filter) ([]model.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(
		c,
		findProducts,
		filter.Category,
		string(filter.Status),
		filter.Search,
		filter.Skip,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed listing products with error=%w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed scanning product with error=%w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating products with error=%w", err)
	}
	return products, nil
}

const updateProduct = `
update products
set name = $2,
	category = $3,
	price = $4,
	image = $5,
	images = $6,
	description = $7,
	features = $8,
	sizes = $9,
	min_quantity = $10,
	max_quantity = $11,
	inventory = $12,
	status = $13,
	variants = $14,
	updated_at = $15
where id = $1
`

func (s *postgresStore) Update(c context.Context, product *model.Product) error {
	images, features, sizes, variants, err := marshalDetails(product)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(
		c,
		updateProduct,
		product.ID,
		product.Name,
		product.Category,
		numeric(product.Price),
		product.Image,
		images,
		product.Description,
		features,
		sizes,
		product.MinQuantity,
		product.MaxQuantity,
		product.Inventory,
		string(product.Status),
		variants,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed updating product with error=%w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf(
			"productId=%s with error=%w",
			product.ID.String(),
			errors.ErrProductNotFound,
		)
	}
	return nil
}

const findCategories = `
select category, count(*)
from products
where status = 'active'
group by category
order by category
`

func (s *postgresStore) Categories(c context.Context) ([]model.CategoryCount, error) {
	rows, err := s.pool.Query(c, findCategories)
	if err != nil {
		return nil, fmt.Errorf("failed aggregating categories with error=%w", err)
	}
	defer rows.Close()

	categories := []model.CategoryCount{}
	for rows.Next() {
		var category model.CategoryCount
		err := rows.Scan(&category.Category, &category.Count)
		if err != nil {
			return nil, fmt.Errorf("failed scanning category with error=%w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating categories with error=%w", err)
	}
	return categories, nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		product  model.Product
		price    pgtype.Numeric
		images   []byte
		features []byte
		sizes    []byte
		variants []byte
		status   string
	)
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&price,
		&product.Image,
		&images,
		&product.Description,
		&features,
		&sizes,
		&product.MinQuantity,
		&product.MaxQuantity,
		&product.Inventory,
		&status,
		&variants,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Price = decimal.NewFromBigInt(price.Int, price.Exp)
	product.Status = model.Status(status)
	for _, pair := range []struct {
		raw  []byte
		into interface{}
	}{
		{images, &product.Images},
		{features, &product.Features},
		{sizes, &product.Sizes},
		{variants, &product.Variants},
	} {
		err = json.Unmarshal(pair.raw, pair.into)
		if err != nil {
			return nil, err
		}
	}
	return &product, nil
}

func marshalDetails(product *model.Product) (images, features, sizes, variants []byte, err error) {
	images, err = json.Marshal(product.Images)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed marshaling images with error=%w", err)
	}
	features, err = json.Marshal(product.Features)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed marshaling features with error=%w", err)
	}
	sizes, err = json.Marshal(product.Sizes)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed marshaling sizes with error=%w", err)
	}
	variants, err = json.Marshal(product.Variants)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed marshaling variants with error=%w", err)
	}
	return images, features, sizes, variants, nil
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}
