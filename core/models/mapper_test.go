package models

import "testing"

func TestMapSourceType(t *testing.T) {
	cases := []struct {
		source string
		want   DataType
		known  bool
	}{
		{"CharField", TypeString, true},
		{"AutoField", TypeInt, true},
		{"ForeignKey", TypeUUID, true},
		{"JSONField", TypeJSON, true},
		{"DateTimeField", TypeDateTime, true},
		{"DecimalField", TypeDecimal, true},
		{"BooleanField", TypeBoolean, true},
		{"BinaryField", TypeBytes, true},
		{"FloatField", TypeFloat, true},
		{"SomethingNovelField", TypeString, false},
	}

	for _, tc := range cases {
		got, known := MapSourceType(tc.source)
		if got != tc.want || known != tc.known {
			t.Errorf("MapSourceType(%q) = (%s, %v), want (%s, %v)", tc.source, got, known, tc.want, tc.known)
		}
	}
}

func TestIgnoreLists(t *testing.T) {
	for _, name := range []string{"id", "created_at", "updated_by", "_template", "is_deleted"} {
		if !IsIgnoredField(name) {
			t.Errorf("expected field %q to be ignored", name)
		}
	}
	if IsIgnoredField("firstName") {
		t.Error("firstName should not be ignored")
	}

	for _, name := range []string{"LogEntry", "Permission", "Session", "CUser"} {
		if !IsIgnoredModel(name) {
			t.Errorf("expected model %q to be ignored", name)
		}
	}
	if IsIgnoredModel("Employee") {
		t.Error("Employee should not be ignored")
	}
}

func TestMapPostgresType(t *testing.T) {
	cases := []struct {
		dbType    string
		want      DataType
		maxLength int
		ok        bool
	}{
		{"uuid", TypeUUID, 0, true},
		{"varchar(100)", TypeString, 100, true},
		{"character varying(255)", TypeString, 255, true},
		{"timestamp with time zone", TypeDateTime, 0, true},
		{"numeric(10,2)", TypeDecimal, 10, true},
		{"jsonb", TypeJSON, 0, true},
		{"bytea", TypeBytes, 0, true},
		{"USER-DEFINED", TypeEnum, 0, true},
		{"tsvector", TypeString, 0, false},
	}

	for _, tc := range cases {
		got, maxLen, ok := MapPostgresType(tc.dbType)
		if got != tc.want || maxLen != tc.maxLength || ok != tc.ok {
			t.Errorf("MapPostgresType(%q) = (%s, %d, %v), want (%s, %d, %v)",
				tc.dbType, got, maxLen, ok, tc.want, tc.maxLength, tc.ok)
		}
	}
}
