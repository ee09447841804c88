package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.General != nil {
		if err := validate.Struct(c.General); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
		}
	}

	validationErrors = append(validationErrors, c.validateExtensions()...)
	validationErrors = append(validationErrors, c.validateRequirements()...)
	validationErrors = append(validationErrors, c.validateBonds()...)

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateExtensions() ValidationErrors {
	var validationErrors ValidationErrors

	// Name must be unique within (type, family); two extensions for the
	// same scope would shadow each other in lookup order.
	seenNames := make(map[string]bool)

	for i, ext := range c.Extensions {
		itemName := ext.Name
		if itemName == "" {
			itemName = fmt.Sprintf("extension[%d]", i)
		}

		if err := validate.Struct(ext); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("extension.%d", i), itemName)...)
		}

		scope := ext.Name + "/" + ext.Type + "/" + ext.Family
		if seenNames[scope] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate extension: %s (type %s, family %s)", ext.Name, ext.Type, ext.Family),
			})
		}
		seenNames[scope] = true

		if ext.StartCommand == "" && ext.StopCommand == "" {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "start_command",
				Message:   "extension must configure at least one of start_command, stop_command",
			})
		}
	}

	return validationErrors
}

func (c *Config) validateRequirements() ValidationErrors {
	var validationErrors ValidationErrors
	seen := make(map[string]bool)

	for i, req := range c.Requirements {
		itemName := req.Interface
		if itemName == "" {
			itemName = fmt.Sprintf("requirement[%d]", i)
		}

		if err := validate.Struct(req); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("requirement.%d", i), itemName)...)
		}

		key := req.Interface + "/" + req.ReachableHost
		if seen[key] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "reachable_host",
				Message:   fmt.Sprintf("duplicate requirement: host %s for interface %s", req.ReachableHost, req.Interface),
			})
		}
		seen[key] = true
	}

	return validationErrors
}

func (c *Config) validateBonds() ValidationErrors {
	var validationErrors ValidationErrors

	seenNames := make(map[string]bool)
	slaveOwner := make(map[string]string)

	for i, bond := range c.Bonds {
		itemName := bond.Name
		if itemName == "" {
			itemName = fmt.Sprintf("bond[%d]", i)
		}

		if err := validate.Struct(bond); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("bond.%d", i), itemName)...)
		}

		if seenNames[bond.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate bond name: %s", bond.Name),
			})
		}
		seenNames[bond.Name] = true

		// A device cannot be a slave of two masters; the kernel would
		// reject the second enslavement at apply time anyway.
		seenSlaves := make(map[string]bool)
		for _, slave := range bond.Slaves {
			if seenSlaves[slave] {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: "slaves",
					Message:   fmt.Sprintf("duplicate slave: %s", slave),
				})
			}
			seenSlaves[slave] = true

			if owner, ok := slaveOwner[slave]; ok && owner != bond.Name {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: "slaves",
					Message:   fmt.Sprintf("slave %s already belongs to bond %s", slave, owner),
				})
			}
			slaveOwner[slave] = bond.Name
		}
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because of the
				// registered TagNameFunc
				fieldName := e.Field()

				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + fieldName
				} else {
					fieldPath = fieldName
				}
			}

			message := getValidationMessage(e)

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   message,
			})
		}
	}

	return validationErrors
}
