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

	"github.com/presmtech/storefront/gangsheet/pkg/model"
	"github.com/presmtech/storefront/internal/errors"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store keeping sheets in the gang_sheets table
// with designs serialized as jsonb.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

const insertSheet = `
insert into gang_sheets
	(id, user_id, template_id, template_name, width, height, base_price,
	 designs, status, total_price, version, created_at, updated_at)
values
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

func (s *postgresStore) Insert(c context.Context, sheet *model.GangSheet) error {
	designs, err := json.Marshal(sheet.Designs)
	if err != nil {
		return fmt.Errorf("failed marshaling designs with error=%w", err)
	}

	sheet.Version = 1
	_, err = s.pool.Exec(
		c,
		insertSheet,
		sheet.ID,
		sheet.UserID,
		sheet.TemplateID,
		sheet.TemplateName,
		sheet.Width,
		sheet.Height,
		numeric(sheet.BasePrice),
		designs,
		string(sheet.Status),
		numeric(sheet.TotalPrice),
		sheet.Version,
		sheet.CreatedAt,
		sheet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed inserting gang sheet with error=%w", err)
	}
	return nil
}

const findSheetById = `
select id, user_id, template_id, template_name, width, height, base_price,
	designs, status, total_price, version, created_at, updated_at
from gang_sheets
where id = $1
`

func (s *postgresStore) FindById(c context.Context, id uuid.UUID) (*model.GangSheet, error) {
	row := s.pool.QueryRow(c, findSheetById, id)
	sheet, err := scanSheet(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("sheetId=%s with error=%w", id.String(), errors.ErrSheetNotFound)
		}
		return nil, fmt.Errorf("failed finding gang sheet with error=%w", err)
	}
	return sheet, nil
}

const findSheetsByUser = `
select id, user_id, template_id, template_name, width, height, base_price,
	designs, status, total_price, version, created_at, updated_at
from gang_sheets
where user_id = $1
order by created_at desc
offset $2 limit $3
`

func (s *postgresStore) FindByUser(
	c context.Context,
	userID string,
	skip, limit int,
) ([]model.GangSheet, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(c, findSheetsByUser, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed listing gang sheets with error=%w", err)
	}
	defer rows.Close()

	sheets := []model.GangSheet{}
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed scanning gang sheet with error=%w", err)
		}
		sheets = append(sheets, *sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating gang sheets with error=%w", err)
	}
	return sheets, nil
}

const updateSheet = `
update gang_sheets
set user_id = $2,
	designs = $3,
	status = $4,
	total_price = $5,
	version = version + 1,
	updated_at = $6
where id = $1 and version = $7
`

func (s *postgresStore) Update(c context.Context, sheet *model.GangSheet) error {
	designs, err := json.Marshal(sheet.Designs)
	if err != nil {
		return fmt.Errorf("failed marshaling designs with error=%w", err)
	}

	tag, err := s.pool.Exec(
		c,
		updateSheet,
		sheet.ID,
		sheet.UserID,
		designs,
		string(sheet.Status),
		numeric(sheet.TotalPrice),
		sheet.UpdatedAt,
		sheet.Version,
	)
	if err != nil {
		return fmt.Errorf("failed updating gang sheet with error=%w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf(
			"sheetId=%s loaded version=%d with error=%w",
			sheet.ID.String(),
			sheet.Version,
			errors.ErrVersionConflict,
		)
	}

	sheet.Version++
	return nil
}

func scanSheet(row pgx.Row) (*model.GangSheet, error) {
	var (
		sheet      model.GangSheet
		basePrice  pgtype.Numeric
		totalPrice pgtype.Numeric
		designs    []byte
		status     string
	)
	err := row.Scan(
		&sheet.ID,
		&sheet.UserID,
		&sheet.TemplateID,
		&sheet.TemplateName,
		&sheet.Width,
		&sheet.Height,
		&basePrice,
		&designs,
		&status,
		&totalPrice,
		&sheet.Version,
		&sheet.CreatedAt,
		&sheet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sheet.BasePrice = decimal.NewFromBigInt(basePrice.Int, basePrice.Exp)
	sheet.TotalPrice = decimal.NewFromBigInt(totalPrice.Int, totalPrice.Exp)
	sheet.Status = model.Status(status)
	err = json.Unmarshal(designs, &sheet.Designs)
	if err != nil {
		return nil, err
	}
	return &sheet, nil
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
