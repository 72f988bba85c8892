package generator

// SchemaTemplate renders the Joi validation schemas for one model: a strict
// create schema and an all-optional update schema. Regenerated on every run.
const SchemaTemplate = `// Code generated by constructors v{{.Version}}. DO NOT EDIT.

const Joi = require('joi');

const create{{pascal .Model.Name}}Schema = Joi.object({
{{- range .Model.Fields}}
  {{.Name}}: {{joiRule $.Service . false}},
{{- end}}
});

const update{{pascal .Model.Name}}Schema = Joi.object({
{{- range .Model.Fields}}
  {{.Name}}: {{joiRule $.Service . true}},
{{- end}}
}).min(1);

const {{camel .Model.Name}}IdSchema = Joi.object({
  id: Joi.string().guid({ version: 'uuidv4' }).required(),
});

module.exports = {
  create{{pascal .Model.Name}}Schema,
  update{{pascal .Model.Name}}Schema,
  {{camel .Model.Name}}IdSchema,
};
`
