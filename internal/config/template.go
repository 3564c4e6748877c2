package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"
)

// placeholderRequired підставляється замість обов'язкової змінної без значення
const placeholderRequired = `"REQUIRED_VALUE_NOT_SET"`

// {{var "name" default required}}
var varTagRegex = regexp.MustCompile(`\{\{var\s+"([^"]+)"\s+([^\s}]+)\s+(true|false)\s*\}\}`)

// generateConfigWithVars генерує конфігурацію з шаблону з використанням змінних
func generateConfigWithVars(templatePath, outputPath string, vars map[string]interface{}) error {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	rendered, missing, err := renderTemplate(string(content), vars)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fmt.Printf("⚠️  Required values not set: %s\n", strings.Join(missing, ", "))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Конфіг містить client secret, тому лише для власника
	if err := os.WriteFile(outputPath, rendered, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// renderTemplate підставляє {{var}} теги і виконує text/template; повертає імена незаданих обов'язкових змінних
func renderTemplate(content string, vars map[string]interface{}) ([]byte, []string, error) {
	processed, missing := processVarTags(content, vars)

	tmpl, err := template.New("config").Funcs(template.FuncMap{
		"env": os.Getenv,
	}).Parse(processed)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), missing, nil
}

// processVarTags обробляє {{var "name" default_value required}} теги
func processVarTags(content string, vars map[string]interface{}) (string, []string) {
	var missing []string

	result := varTagRegex.ReplaceAllStringFunc(content, func(match string) string {
		matches := varTagRegex.FindStringSubmatch(match)
		if len(matches) != 4 {
			return match
		}

		varName := matches[1]
		defaultValue := matches[2]
		required := matches[3] == "true"

		if value, exists := vars[varName]; exists && value != "" {
			return formatValue(value)
		}

		if required && (defaultValue == "" || defaultValue == `""`) {
			missing = append(missing, varName)
			return placeholderRequired
		}

		return formatValue(parseDefaultValue(defaultValue))
	})

	return result, missing
}

// formatValue форматує значення для HCL
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case []string:
		return quoteList(v)
	case string:
		// Список через кому стає елементами HCL масиву (дужки ставить шаблон)
		if strings.Contains(v, ",") {
			return quoteList(strings.Split(v, ","))
		}
		return strconv.Quote(v)
	case int, int32, int64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return strconv.FormatFloat(toFloat(v), 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

func quoteList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, strconv.Quote(strings.TrimSpace(item)))
	}
	return strings.Join(quoted, ", ")
}

func toFloat(v interface{}) float64 {
	if f, ok := v.(float32); ok {
		return float64(f)
	}
	return v.(float64)
}

// parseDefaultValue парсить дефолтне значення з template
func parseDefaultValue(defaultValue string) interface{} {
	if strings.HasPrefix(defaultValue, `"`) && strings.HasSuffix(defaultValue, `"`) {
		return strings.Trim(defaultValue, `"`)
	}

	if intVal, err := strconv.Atoi(defaultValue); err == nil {
		return intVal
	}

	if floatVal, err := strconv.ParseFloat(defaultValue, 64); err == nil {
		return floatVal
	}

	if boolVal, err := strconv.ParseBool(defaultValue); err == nil {
		return boolVal
	}

	return defaultValue
}
