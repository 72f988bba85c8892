package generator

// IndexRoutesTemplate renders the v1 router aggregator mounting every
// model's routes. Regenerated on every run.
const IndexRoutesTemplate = `// Code generated by constructors v{{.Version}}. DO NOT EDIT.

const express = require('express');

{{range .Service.Models -}}
const {{camel .Name}}Routes = require('./{{camel .Name}}.routes.core');
{{end}}
const router = express.Router();

{{range .Service.Models -}}
router.use('/{{kebab (snake (plural (pascal .Name)))}}', {{camel .Name}}Routes);
{{end}}
module.exports = router;
`

// PackageJSONTemplate scaffolds the service's package.json. Written only
// when absent; an existing file always wins.
const PackageJSONTemplate = `{
  "name": "{{slug .Service.MicroserviceName}}",
  "version": "1.0.0",
  "private": true,
  "main": "index.js",
  "scripts": {
    "start": "node index.js",
    "dev": "nodemon index.js",
    "prisma:generate": "prisma generate",
    "prisma:migrate": "prisma migrate dev"
  },
  "dependencies": {
    "@prisma/client": "^5.14.0",
    "bullmq": "^5.7.0",
    "express": "^4.19.0",
    "joi": "^17.13.0"
  },
  "devDependencies": {
    "nodemon": "^3.1.0",
    "prisma": "^5.14.0"
  }
}
`
