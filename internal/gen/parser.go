package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/scohe001/foreign-keys/internal/naming"
)

// FieldInfo holds parsed metadata for one struct field.
type FieldInfo struct {
	Name       string // Go field name, e.g. "ID"
	Column     string // DB column name from `db:"id"` tag
	GoType     string // Go type as string, e.g. "int", "string", "time.Time"
	PrimaryKey bool   // true if tag contains "primaryKey"
	CreatedAt  bool   // auto-set on insert
	UpdatedAt  bool   // auto-set on insert and update
}

// RelationInfo holds parsed metadata for one `rel:` tagged field.
type RelationInfo struct {
	FieldName        string // "Meals"
	TargetType       string // "Meal"
	TargetImportPath string // non-empty for cross-package targets
	RelType          string // "has_many", "has_one", "belongs_to", "many_to_many"
	ForeignKey       string // column holding the reference
	JoinTable        string // many_to_many only
	References       string // many_to_many only: target-side join column
	OnDelete         string // "", "restrict", "cascade", "set_null", "no_action"
	IsPointer        bool   // source field is a pointer type
}

// StructInfo holds parsed metadata for the target struct.
type StructInfo struct {
	Name      string // Go struct name, e.g. "Meal"
	Package   string // Package name, e.g. "model"
	Fields    []FieldInfo
	Relations []RelationInfo
	TableName string // Set by the caller (from CLI flag or inference)
}

// PrimaryKeyField returns the primary key field, or an error if none or
// multiple are defined.
func (s *StructInfo) PrimaryKeyField() (*FieldInfo, error) {
	var pk *FieldInfo
	for i := range s.Fields {
		if s.Fields[i].PrimaryKey {
			if pk != nil {
				return nil, fmt.Errorf("multiple primary keys: %s and %s", pk.Name, s.Fields[i].Name)
			}
			pk = &s.Fields[i]
		}
	}
	if pk == nil {
		return nil, fmt.Errorf("no primary key defined for %s", s.Name)
	}
	return pk, nil
}

// Parse reads the Go file at path and returns StructInfo for every struct
// that has at least one column or relation field.
func Parse(filePath string) ([]*StructInfo, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	imports := importMap(file)
	pkg := file.Name.Name
	var infos []*StructInfo
	var parseErr error

	ast.Inspect(file, func(n ast.Node) bool {
		if parseErr != nil {
			return false
		}
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}

		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return true
		}

		fields, relations, err := parseStructFields(st, imports)
		if err != nil {
			parseErr = fmt.Errorf("%s: %w", ts.Name.Name, err)
			return false
		}
		if len(fields) == 0 && len(relations) == 0 {
			return true
		}

		infos = append(infos, &StructInfo{
			Name:      ts.Name.Name,
			Package:   pkg,
			Fields:    fields,
			Relations: relations,
		})
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return infos, nil
}

// importMap maps local package names/aliases to import paths.
func importMap(file *ast.File) map[string]string {
	m := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			name = path[i+1:]
		}
		if imp.Name != nil {
			name = imp.Name.Name
		}
		m[name] = path
	}
	return m
}

func parseStructFields(st *ast.StructType, imports map[string]string) ([]FieldInfo, []RelationInfo, error) {
	var fields []FieldInfo
	var relations []RelationInfo
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 || !field.Names[0].IsExported() {
			continue // embedded or unexported, skip
		}

		if relTag, ok := lookupTag(field, "rel"); ok {
			rel, err := parseRelation(field, relTag, imports)
			if err != nil {
				return nil, nil, err
			}
			relations = append(relations, rel)
			continue
		}

		fi, skip := parseField(field)
		if skip {
			continue
		}
		fields = append(fields, fi)
	}
	return fields, relations, nil
}

func lookupTag(field *ast.Field, key string) (string, bool) {
	if field.Tag == nil {
		return "", false
	}
	tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
	return tag.Lookup(key)
}

func parseField(field *ast.Field) (FieldInfo, bool) {
	name := field.Names[0].Name
	goType := typeToString(field.Type)

	// Defaults: column inferred from field name, ID field is primary key,
	// CreatedAt / UpdatedAt are timestamp columns by convention.
	column := naming.CamelToSnake(name)
	primaryKey := name == "ID"
	createdAt := name == "CreatedAt"
	updatedAt := name == "UpdatedAt"

	// Override with db tag if present.
	if dbTag, ok := lookupTag(field, "db"); ok {
		if dbTag == "-" {
			return FieldInfo{}, true // explicitly skipped
		}
		parts := strings.Split(dbTag, ",")
		if parts[0] != "" {
			column = parts[0]
		}
		for _, opt := range parts[1:] {
			switch opt {
			case "primaryKey":
				primaryKey = true
			case "createdAt":
				createdAt = true
			case "updatedAt":
				updatedAt = true
			}
		}
	}

	return FieldInfo{
		Name:       name,
		Column:     column,
		GoType:     goType,
		PrimaryKey: primaryKey,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, false
}

// parseRelation parses a rel tag like
//
//	rel:"has_many,foreign_key:user_id,on_delete:cascade"
//	rel:"many_to_many,join_table:pizza_toppings,foreign_key:pizza_id,references:topping_id"
func parseRelation(field *ast.Field, relTag string, imports map[string]string) (RelationInfo, error) {
	name := field.Names[0].Name
	parts := strings.Split(relTag, ",")

	rel := RelationInfo{
		FieldName: name,
		RelType:   parts[0],
	}

	switch rel.RelType {
	case "has_many", "has_one", "belongs_to", "many_to_many":
	default:
		return RelationInfo{}, fmt.Errorf("field %s: unknown relation type %q", name, rel.RelType)
	}

	for _, opt := range parts[1:] {
		key, value, found := strings.Cut(opt, ":")
		if !found {
			return RelationInfo{}, fmt.Errorf("field %s: malformed rel option %q", name, opt)
		}
		switch key {
		case "foreign_key":
			rel.ForeignKey = value
		case "join_table":
			rel.JoinTable = value
		case "references":
			rel.References = value
		case "on_delete":
			switch value {
			case "restrict", "cascade", "set_null", "no_action":
				rel.OnDelete = value
			default:
				return RelationInfo{}, fmt.Errorf("field %s: unknown on_delete %q", name, value)
			}
		default:
			return RelationInfo{}, fmt.Errorf("field %s: unknown rel option %q", name, key)
		}
	}

	if rel.ForeignKey == "" {
		return RelationInfo{}, fmt.Errorf("field %s: rel tag requires foreign_key", name)
	}
	if rel.RelType == "many_to_many" && (rel.JoinTable == "" || rel.References == "") {
		return RelationInfo{}, fmt.Errorf("field %s: many_to_many requires join_table and references", name)
	}

	targetType, importPath, isPointer := relationTarget(field.Type, imports)
	if targetType == "" {
		return RelationInfo{}, fmt.Errorf("field %s: cannot determine relation target type", name)
	}
	rel.TargetType = targetType
	rel.TargetImportPath = importPath
	rel.IsPointer = isPointer

	return rel, nil
}

// relationTarget unwraps []T, *T, and pkg.T to find the target struct name
// and, for qualified types, the import path of its package.
func relationTarget(expr ast.Expr, imports map[string]string) (typeName, importPath string, isPointer bool) {
	switch t := expr.(type) {
	case *ast.ArrayType:
		name, path, _ := relationTarget(t.Elt, imports)
		return name, path, false
	case *ast.StarExpr:
		name, path, _ := relationTarget(t.X, imports)
		return name, path, true
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return t.Sel.Name, imports[ident.Name], false
		}
		return t.Sel.Name, "", false
	case *ast.Ident:
		return t.Name, "", false
	default:
		return "", "", false
	}
}

func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", typeToString(t.Len), typeToString(t.Elt))
	default:
		return fmt.Sprintf("%T", expr)
	}
}
