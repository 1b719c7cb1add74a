package handlers

import (
	"context"
	"fmt"
)

// Validate checks the template and prints one finding per line. A template
// with findings exits non-zero so scripts can gate on it.
func Validate(ctx context.Context, profilePath, templatePath string, failFast bool) error {
	env, err := setup(ctx, profilePath)
	if err != nil {
		return err
	}
	defer env.close()

	template, err := loadTemplate(templatePath, env.profile)
	if err != nil {
		return err
	}

	validator := newValidator(env)
	findings := validator.Validate(ctx, template, failFast)
	if len(findings) == 0 {
		fmt.Printf("template %s is valid\n", template.Name)
		return nil
	}
	for _, finding := range findings {
		fmt.Println(finding)
	}
	return fmt.Errorf("template %s has %d finding(s)", template.Name, len(findings))
}
