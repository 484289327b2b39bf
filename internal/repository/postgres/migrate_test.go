package postgres

import (
	"database/sql"
	"testing"

	"github.com/pratik-mahalle/voltcast-alerts/migrations"
	_ "modernc.org/sqlite"
)

func TestDialect_Rebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{
			name:    "sqlite unchanged",
			dialect: DialectSQLite,
			in:      "SELECT id FROM alert_rules WHERE user_id = ? AND is_active = ?",
			want:    "SELECT id FROM alert_rules WHERE user_id = ? AND is_active = ?",
		},
		{
			name:    "postgres numbered",
			dialect: DialectPostgres,
			in:      "SELECT id FROM alert_rules WHERE user_id = ? AND is_active = ?",
			want:    "SELECT id FROM alert_rules WHERE user_id = $1 AND is_active = $2",
		},
		{
			name:    "no placeholders",
			dialect: DialectPostgres,
			in:      "SELECT COUNT(*) FROM alert_rules",
			want:    "SELECT COUNT(*) FROM alert_rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.in); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	if DialectFor("postgres") != DialectPostgres {
		t.Error("DialectFor(postgres) != DialectPostgres")
	}
	if DialectFor("sqlite") != DialectSQLite {
		t.Error("DialectFor(sqlite) != DialectSQLite")
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	fsys, err := migrations.GetFS("sqlite")
	if err != nil {
		t.Fatalf("GetFS() error = %v", err)
	}

	applied, err := RunMigrations(db, DialectSQLite, fsys)
	if err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if applied == 0 {
		t.Fatal("RunMigrations() applied nothing on an empty database")
	}

	again, err := RunMigrations(db, DialectSQLite, fsys)
	if err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
	if again != 0 {
		t.Errorf("second RunMigrations() applied %d, want 0", again)
	}

	if _, err := db.Exec(`SELECT id, is_active FROM alert_rules`); err != nil {
		t.Errorf("alert_rules table missing: %v", err)
	}
}
