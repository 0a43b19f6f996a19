package dynschema

// TableRef identifies a dynamic table inside the schema store. The zero value
// means "not provisioned yet".
type TableRef string

// FieldRef identifies a dynamic field inside the schema store. The zero value
// means "not synthesized yet".
type FieldRef string

// FieldType is the physical storage type a dynamic field is declared with.
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeDate      FieldType = "date"
	FieldTypeDateTime  FieldType = "datetime"
	FieldTypeReference FieldType = "reference"
)

// TableSpec describes a dynamic table to create. Insertable mirrors the
// deployment choice of whether mobile clients may insert rows directly;
// MobileData controls whether the table is synced to mobile clients at all.
type TableSpec struct {
	Title      string `json:"title"`
	MobileData bool   `json:"mobileData"`
	Insertable bool   `json:"insertable"`
}

// FieldSpec describes a dynamic field. Name is the physical column identifier
// and is immutable once created; UpdateField implementations ignore it. The
// Ref* and Component* settings only apply to reference-typed fields and
// describe how rows join back to their master record.
type FieldSpec struct {
	Name     string    `json:"name"`
	Label    string    `json:"label,omitempty"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
	HelpText string    `json:"helpText,omitempty"`

	RefTable          string `json:"refTable,omitempty"`
	ComponentKey      bool   `json:"componentKey,omitempty"`
	ComponentAlias    string `json:"componentAlias,omitempty"`
	ComponentTab      bool   `json:"componentTab,omitempty"`
	ComponentMultiple bool   `json:"componentMultiple,omitempty"`
}

// Table is the read-side view of a provisioned table, used by inspection
// tooling and tests. Fields preserve creation order.
type Table struct {
	Ref    TableRef  `json:"ref"`
	Spec   TableSpec `json:"spec"`
	Fields []Field   `json:"fields,omitempty"`
}

// Field is the read-side view of a dynamic field.
type Field struct {
	Ref  FieldRef  `json:"ref"`
	Spec FieldSpec `json:"spec"`
}
