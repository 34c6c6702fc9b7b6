package database

import (
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO users (name, email) VALUES (?, ?)",
			expected: "INSERT INTO users (name, email) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE users SET name = ?, email = ? WHERE id = ?",
			expected: "UPDATE users SET name = ?, email = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestClampExpr(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		expected string
	}{
		{
			name:     "SQLite scalar min/max",
			dialect:  NewSQLiteDialect(),
			expected: "MAX(0, MIN(1000, credit_score + ?))",
		},
		{
			name:     "PostgreSQL greatest/least",
			dialect:  NewPostgresDialect(),
			expected: "GREATEST(0, LEAST(1000, credit_score + ?))",
		},
		{
			name:     "MySQL greatest/least",
			dialect:  NewMySQLDialect(),
			expected: "GREATEST(0, LEAST(1000, credit_score + ?))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.ClampExpr("credit_score + ?", 0, 1000)
			if result != tt.expected {
				t.Errorf("ClampExpr() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCentsExpr(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		expected string
	}{
		{NewSQLiteDialect(), "ROUND(balance - ?, 2)"},
		{NewPostgresDialect(), "ROUND((balance - ?)::numeric, 2)"},
		{NewMySQLDialect(), "ROUND(balance - ?, 2)"},
	}

	for _, tt := range tests {
		if got := tt.dialect.CentsExpr("balance - ?"); got != tt.expected {
			t.Errorf("%s CentsExpr() = %v, want %v", tt.dialect.DriverName(), got, tt.expected)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	d := NewSQLiteDialect()
	if got := d.DSN(DialectConfig{Path: "app.db"}); got != "app.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate" {
		t.Errorf("DSN() = %v", got)
	}
	if got := d.DSN(DialectConfig{Path: "file:app.db?cache=shared"}); got != "file:app.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate" {
		t.Errorf("DSN() with existing query = %v", got)
	}
}

func TestSplitStatements(t *testing.T) {
	content := `-- header comment
CREATE TABLE a (id TEXT);

-- another
CREATE INDEX idx_a ON a(id);
`
	stmts := splitStatements(content)
	if len(stmts) != 2 {
		t.Fatalf("splitStatements() returned %d statements, want 2: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (id TEXT)" {
		t.Errorf("first statement = %q", stmts[0])
	}
}
