package synth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
)

// Name and join settings of the mandatory field linking each row of a backing
// table to its owning response record.
const (
	responseFieldName  = "response_id"
	responseMasterName = "response"
	responseAlias      = "answer"
)

// ProvisionSchema creates the backing table for a freshly created template
// and links it back onto the template record. Invoked once per template at
// creation time; a template that already has a backing table is a no-op, and
// the per-template lock keeps a concurrent duplicate trigger from creating a
// second table.
//
// Table creation, the response link field, and the back-reference write are
// one logical unit. The store offers no rollback for a created table, so a
// failure after creation surfaces as *ProvisioningError and leaves the table
// behind for manual remediation.
func (m *Manager) ProvisionSchema(ctx context.Context, templateID string) error {
	unlock := m.templateLocks.lock(templateID)
	defer unlock()

	tmpl, err := m.repos.Templates.Template(ctx, templateID)
	if err != nil {
		return fmt.Errorf("synth: provision template %s: %w", templateID, err)
	}
	if tmpl.BackingTable != "" {
		return nil
	}

	tableRef, err := m.store.CreateTable(ctx, dynschema.TableSpec{
		Title:      tmpl.Name,
		MobileData: m.config.MobileData,
		Insertable: m.config.MobileInserts,
	})
	if err != nil {
		return fmt.Errorf("synth: create backing table for template %s: %w", templateID, err)
	}

	// Every row in the backing table belongs to exactly one response record;
	// the link field is the component key for that singular relation.
	_, err = m.store.CreateField(ctx, tableRef, dynschema.FieldSpec{
		Name:              responseFieldName,
		Type:              dynschema.FieldTypeReference,
		Required:          true,
		RefTable:          responseMasterName,
		ComponentKey:      true,
		ComponentAlias:    responseAlias,
		ComponentTab:      true,
		ComponentMultiple: false,
	})
	if err != nil {
		perr := &ProvisioningError{TemplateID: templateID, Table: tableRef, Err: err}
		m.logger.Error("provisioning left template inconsistent",
			"template", templateID, "table", string(tableRef), "error", err)
		return perr
	}

	if err := m.repos.Templates.SetBackingTable(ctx, templateID, tableRef); err != nil {
		perr := &ProvisioningError{TemplateID: templateID, Table: tableRef, Err: err}
		m.logger.Error("provisioning left template inconsistent",
			"template", templateID, "table", string(tableRef), "error", err)
		return perr
	}

	return nil
}
