package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.Equal(t, NameSQLite, New("sqlite").Name())
	assert.Equal(t, NameSQLite, New("SQLite3").Name())
	assert.Equal(t, NameMySQL, New("mysql").Name())
	assert.Equal(t, NamePostgres, New("postgresql").Name())
	assert.Equal(t, NameUnknown, New("oracle").Name())
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM content WHERE content_id = ? AND content_status = ?"

	// sqlite/mysql 保持原样
	assert.Equal(t, q, New("sqlite").Rebind(q))
	assert.Equal(t, q, New("mysql").Rebind(q))

	// postgres 转换为 $n
	assert.Equal(t,
		"SELECT * FROM content WHERE content_id = $1 AND content_status = $2",
		New("postgres").Rebind(q))
}

func TestIsUniqueViolation(t *testing.T) {
	sqlite := New("sqlite")
	assert.True(t, sqlite.IsUniqueViolation(errors.New("UNIQUE constraint failed: content.content_id")))
	assert.False(t, sqlite.IsUniqueViolation(errors.New("no such table: content")))
	assert.False(t, sqlite.IsUniqueViolation(nil))

	mysql := New("mysql")
	assert.True(t, mysql.IsUniqueViolation(errors.New("Error 1062: Duplicate entry 'x' for key 'PRIMARY'")))

	pg := New("postgres")
	assert.True(t, pg.IsUniqueViolation(errors.New(`pq: duplicate key value violates unique constraint`)))
}
