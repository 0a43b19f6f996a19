package main

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-dcschema/pkg/template"
)

// designableTypes are the question types the interactive designer offers.
// Grids need layout coordinates and are better authored in a definition file.
var designableTypes = []string{
	template.TypeText.String(),
	template.TypeNumber.String(),
	template.TypeYesNo.String(),
	template.TypeYesNoDontKnow.String(),
	template.TypeOptions.String(),
	template.TypeDate.String(),
	template.TypeDateTime.String(),
}

// designDefinition walks the user through building a template definition in
// the terminal: template header, section tree, then questions with optional
// translations.
func designDefinition() (template.Definition, error) {
	var def template.Definition

	if err := survey.AskOne(&survey.Input{
		Message: "Template name:",
	}, &def.Name, survey.WithValidator(survey.Required)); err != nil {
		return template.Definition{}, err
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Comments (optional):",
	}, &def.Comments); err != nil {
		return template.Definition{}, err
	}

	sections, err := designSections()
	if err != nil {
		return template.Definition{}, err
	}
	def.Sections = sections

	sectionNames := make([]string, 0, len(sections))
	for _, s := range sections {
		sectionNames = append(sectionNames, s.Name)
	}

	for {
		question, err := designQuestion(sectionNames)
		if err != nil {
			return template.Definition{}, err
		}
		def.Questions = append(def.Questions, question)

		more := false
		if err := survey.AskOne(&survey.Confirm{
			Message: "Add another question?",
			Default: true,
		}, &more); err != nil {
			return template.Definition{}, err
		}
		if !more {
			break
		}
	}

	if err := def.Validate(); err != nil {
		return template.Definition{}, err
	}
	return def, nil
}

func designSections() ([]template.SectionDefinition, error) {
	addSections := false
	if err := survey.AskOne(&survey.Confirm{
		Message: "Organise questions into sections?",
	}, &addSections); err != nil {
		return nil, err
	}

	var sections []template.SectionDefinition
	for addSections {
		var sec template.SectionDefinition
		if err := survey.AskOne(&survey.Input{
			Message: "Section name:",
		}, &sec.Name, survey.WithValidator(survey.Required)); err != nil {
			return nil, err
		}
		if len(sections) > 0 {
			options := []string{"(top level)"}
			for _, existing := range sections {
				options = append(options, existing.Name)
			}
			var parent string
			if err := survey.AskOne(&survey.Select{
				Message: "Parent section:",
				Options: options,
			}, &parent); err != nil {
				return nil, err
			}
			if parent != "(top level)" {
				sec.Parent = parent
			}
		}
		sections = append(sections, sec)

		if err := survey.AskOne(&survey.Confirm{
			Message: "Add another section?",
		}, &addSections); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

func designQuestion(sectionNames []string) (template.QuestionDefinition, error) {
	var q template.QuestionDefinition

	if err := survey.AskOne(&survey.Input{
		Message: "Question name:",
	}, &q.Name, survey.WithValidator(survey.Required)); err != nil {
		return template.QuestionDefinition{}, err
	}

	if err := survey.AskOne(&survey.Select{
		Message: "Answer type:",
		Options: designableTypes,
	}, &q.Type); err != nil {
		return template.QuestionDefinition{}, err
	}

	if q.Type == template.TypeOptions.String() {
		options, err := askOptionList("Options (comma separated):", "The canonical answer list, e.g. Low, Medium, High")
		if err != nil {
			return template.QuestionDefinition{}, err
		}
		q.Options = options
	}

	if len(sectionNames) > 0 {
		choices := append([]string{"(none)"}, sectionNames...)
		var section string
		if err := survey.AskOne(&survey.Select{
			Message: "Section:",
			Options: choices,
		}, &section); err != nil {
			return template.QuestionDefinition{}, err
		}
		if section != "(none)" {
			q.Section = section
		}
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Code (optional):",
		Help:    "Stable identifier other questions can reference",
	}, &q.Code); err != nil {
		return template.QuestionDefinition{}, err
	}
	if err := survey.AskOne(&survey.Confirm{
		Message: "Required?",
	}, &q.Required); err != nil {
		return template.QuestionDefinition{}, err
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Tooltip (optional):",
	}, &q.Tooltip); err != nil {
		return template.QuestionDefinition{}, err
	}

	translations, err := designTranslations(q)
	if err != nil {
		return template.QuestionDefinition{}, err
	}
	q.Translations = translations

	return q, nil
}

func designTranslations(q template.QuestionDefinition) ([]template.TranslationDefinition, error) {
	addTranslation := false
	if err := survey.AskOne(&survey.Confirm{
		Message: "Add a translation for this question?",
	}, &addTranslation); err != nil {
		return nil, err
	}

	var translations []template.TranslationDefinition
	for addTranslation {
		var tr template.TranslationDefinition
		if err := survey.AskOne(&survey.Input{
			Message: "Language code:",
			Help:    "For example fr, es, pt-BR",
		}, &tr.Language, survey.WithValidator(survey.Required)); err != nil {
			return nil, err
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Translated name (optional):",
		}, &tr.Name); err != nil {
			return nil, err
		}
		if len(q.Options) > 0 {
			options, err := askOptionList(
				"Translated options (comma separated):",
				"Must match the canonical list entry for entry",
			)
			if err != nil {
				return nil, err
			}
			tr.Options = options
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Translated tooltip (optional):",
		}, &tr.Tooltip); err != nil {
			return nil, err
		}
		translations = append(translations, tr)

		if err := survey.AskOne(&survey.Confirm{
			Message: "Add another translation?",
		}, &addTranslation); err != nil {
			return nil, err
		}
	}
	return translations, nil
}

func askOptionList(message, help string) ([]string, error) {
	var raw string
	if err := survey.AskOne(&survey.Input{
		Message: message,
		Help:    help,
	}, &raw, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}
	var options []string
	for _, option := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options, nil
}
