package postgres

import (
	"strings"
	"testing"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereBuilder_Empty(t *testing.T) {
	where, args := newWhereBuilder().Build()
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestWhereBuilder_AddSkipsEmpty(t *testing.T) {
	wb := newWhereBuilder()
	wb.Add("bureau_number", "")
	wb.Add("bureau_number", "bureau_3")

	where, args := wb.Build()
	assert.Equal(t, " WHERE bureau_number = $1", where)
	assert.Equal(t, []any{"bureau_3"}, args)
	assert.Equal(t, 2, wb.NextArgIndex())
}

func TestWhereBuilder_AddSearch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantWhere string
		wantArgs  []any
	}{
		{"empty", "", "", nil},
		{"name only", "Petrov", " WHERE (full_name ILIKE $1)", []any{"%Petrov%"}},
		{
			"digits add snils branch",
			"123-456",
			` WHERE (regexp_replace(COALESCE(snils, ''), '\D', '', 'g') LIKE $2 OR full_name ILIKE $1)`,
			[]any{"%123-456%", "%123456%"},
		},
		{"wildcards escaped", "50%_x", ` WHERE (regexp_replace(COALESCE(snils, ''), '\D', '', 'g') LIKE $2 OR full_name ILIKE $1)`, []any{`%50\%\_x%`, "%50%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := newWhereBuilder()
			wb.AddSearch(tt.query)
			where, args := wb.Build()
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFetchQuery(t *testing.T) {
	b3 := unit.NewBureau(3)
	omo := unit.OMO

	tests := []struct {
		name       string
		filter     core.Filter
		wantSuffix string
		wantArgs   []any
	}{
		{"all", core.Filter{}, " FROM records ORDER BY mse_date DESC, id DESC", nil},
		{"oversight sees all", core.Filter{Unit: &omo}, " FROM records ORDER BY mse_date DESC, id DESC", nil},
		{
			"unit and paging",
			core.Filter{Unit: &b3, Limit: 30, Offset: 60},
			" FROM records WHERE bureau_number = $1 ORDER BY mse_date DESC, id DESC LIMIT $2 OFFSET $3",
			[]any{"bureau_3", 30, 60},
		},
		{
			"search and offset only",
			core.Filter{Search: "ivan", Offset: 5},
			" FROM records WHERE (full_name ILIKE $1) ORDER BY mse_date DESC, id DESC OFFSET $2",
			[]any{"%ivan%", 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := fetchQuery(tt.filter)
			assert.True(t, strings.HasPrefix(query, "SELECT id, bureau_number, full_name,"), query)
			assert.True(t, strings.HasSuffix(query, tt.wantSuffix), query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCountQuery(t *testing.T) {
	b3 := unit.NewBureau(3)
	query, args := countQuery(core.Filter{Unit: &b3, Limit: 10})
	assert.Equal(t, "SELECT COUNT(*) FROM records WHERE bureau_number = $1", query)
	assert.Equal(t, []any{"bureau_3"}, args)
}

func TestRecordColumns(t *testing.T) {
	cols := strings.Split(recordColumns, ", ")
	assert.Len(t, cols, len(record.Fields())+4)
	assert.Equal(t, "id", cols[0])
	assert.Equal(t, "updated_at", cols[len(cols)-1])
}

func normalized(t *testing.T, id *int64, kv ...any) record.Normalized {
	t.Helper()
	var p record.Payload
	for i := 0; i+1 < len(kv); i += 2 {
		p = append(p, record.Entry{Key: kv[i].(string), Value: kv[i+1]})
	}
	n, err := record.Normalize(p, id)
	require.NoError(t, err)
	return n
}

func TestInsertQuery(t *testing.T) {
	n := normalized(t, nil, "fullName", "Ivan", "mseDate", "2024-01-15")

	query, args := insertQuery("bureau_3", n)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO records (bureau_number, full_name, mse_date) VALUES ($1, $2, $3) RETURNING id,"), query)
	require.Len(t, args, 3)
	assert.Equal(t, "bureau_3", args[0])
	assert.Equal(t, record.ToPgText("Ivan"), args[1])
}

func TestUpdateQuery(t *testing.T) {
	id := int64(7)
	n := normalized(t, &id, "mseDate", "2024-01-15", "purpose", "")

	query, args := updateQuery(id, n)
	assert.True(t, strings.HasPrefix(query,
		"UPDATE records SET mse_date = $1, purpose = $2, updated_at = GREATEST(updated_at, CURRENT_TIMESTAMP) WHERE id = $3 RETURNING "), query)
	assert.NotContains(t, query, "bureau_number =")
	require.Len(t, args, 3)
	assert.Equal(t, pgtype.Text{}, args[1])
	assert.Equal(t, int64(7), args[2])
}
