package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "name").
		From("teams").
		Where(
			Eq("client_public_id", "c-1"),
			Ne("status", "withdrawn"),
			IsNull("deleted_at"),
		).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT public_id, name FROM teams WHERE client_public_id = $1 AND status <> $2 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != want {
		t.Fatalf("unexpected query:\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 2 || args[0] != "c-1" || args[1] != "withdrawn" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilder_EmptyIn(t *testing.T) {
	query, args, err := Select("*").From("members").Where(In("public_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}
	if query != "SELECT * FROM members WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestUpdateBuilder_SetExpr(t *testing.T) {
	query, args, err := Update("teams").
		SetExpr("unpaid_members_count", "GREATEST(unpaid_members_count - ?, 0)", 3).
		Where(Eq("public_id", "t-1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE teams SET unpaid_members_count = GREATEST(unpaid_members_count - $1, 0) WHERE public_id = $2"
	if query != want {
		t.Fatalf("unexpected query:\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 2 || args[0] != 3 || args[1] != "t-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertBuilder_RowMismatch(t *testing.T) {
	_, _, err := InsertInto("payments").
		Columns("public_id", "amount").
		Values("p-1").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for row/column mismatch")
	}
}
