package models

import "testing"

func TestToCamelCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"first_name", "firstName"},
		{"opportunity-client", "opportunityClient"},
		{"name", "name"},
		{"Name", "name"},
		{"due_date_2", "dueDate2"},
		{"TaskStatus", "taskStatus"},
		{"AcceptanceTest", "acceptanceTest"},
		{"firstName", "firstName"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ToCamelCase(tc.in); got != tc.want {
			t.Errorf("ToCamelCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToPascalCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"first_name", "FirstName"},
		{"employee", "Employee"},
		{"sales-order", "SalesOrder"},
		{"TaskStatus", "TaskStatus"},
		{"sprintMeta", "SprintMeta"},
	}

	for _, tc := range cases {
		if got := ToPascalCase(tc.in); got != tc.want {
			t.Errorf("ToPascalCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToSnakeAndKebabCase(t *testing.T) {
	if got := ToSnakeCase("FirstName"); got != "first_name" {
		t.Errorf("ToSnakeCase(FirstName) = %q, want first_name", got)
	}
	if got := ToSnakeCase("firstName"); got != "first_name" {
		t.Errorf("ToSnakeCase(firstName) = %q, want first_name", got)
	}
	if got := ToKebabCase("sales_orders"); got != "sales-orders" {
		t.Errorf("ToKebabCase(sales_orders) = %q, want sales-orders", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"firstName", "First Name"},
		{"FirstName", "First Name"},
		{"first_name", "First Name"},
		{"sales-order", "Sales Order"},
		{"Bug", "Bug"},
		{"über_status", "Über Status"},
	}

	for _, tc := range cases {
		if got := TitleCase(tc.in); got != tc.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"employee", "employees"},
		{"company", "companies"},
		{"status", "statuses"},
		{"box", "boxes"},
		{"batch", "batches"},
		{"day", "days"},
	}

	for _, tc := range cases {
		if got := Pluralize(tc.in); got != tc.want {
			t.Errorf("Pluralize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSingularize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"employees", "employee"},
		{"companies", "company"},
		{"boxes", "box"},
		{"address", "address"},
	}

	for _, tc := range cases {
		if got := Singularize(tc.in); got != tc.want {
			t.Errorf("Singularize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReplaceNumbersWithWords(t *testing.T) {
	if got := ReplaceNumbersWithWords("Priority2"); got != "PriorityTwo" {
		t.Errorf("ReplaceNumbersWithWords(Priority2) = %q, want PriorityTwo", got)
	}
	if got := ReplaceNumbersWithWords("v10"); got != "vOneZero" {
		t.Errorf("ReplaceNumbersWithWords(v10) = %q, want vOneZero", got)
	}
	if got := ReplaceNumbersWithWords("plain"); got != "plain" {
		t.Errorf("ReplaceNumbersWithWords(plain) = %q, want plain", got)
	}
}

func TestEnumName(t *testing.T) {
	cases := []struct {
		model string
		field string
		want  string
	}{
		{"Bug", "status", "BugStatuses"},
		{"Bug", "priority_2_level", "BugPriorityTwoLevels"},
		{"Opportunity", "stage", "OpportunityStages"},
	}

	for _, tc := range cases {
		if got := EnumName(tc.model, tc.field); got != tc.want {
			t.Errorf("EnumName(%q, %q) = %q, want %q", tc.model, tc.field, got, tc.want)
		}
	}
}

func TestEnumValueName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"in_progress", "InProgress"},
		{"done", "Done"},
		{"priority_1", "PriorityOne"},
	}

	for _, tc := range cases {
		if got := EnumValueName(tc.in); got != tc.want {
			t.Errorf("EnumValueName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
