package generator

// RoutesTemplate renders the Express router for one model, wiring the
// auth -> protect -> validate -> wrapExpressAsync middleware chain in front
// of the controller. Regenerated on every run.
const RoutesTemplate = `// Code generated by constructors v{{.Version}}. DO NOT EDIT.

const express = require('express');

const { auth } = require('../../../middleware/auth');
const { protect } = require('../../../middleware/protect');
const { validate } = require('../../../middleware/validate');
const { wrapExpressAsync } = require('../../../middleware/wrapExpressAsync');
const controller = require('../../controllers/{{camel .Model.Name}}.controller.core');
const {
  create{{pascal .Model.Name}}Schema,
  update{{pascal .Model.Name}}Schema,
  {{camel .Model.Name}}IdSchema,
} = require('../../schemas/{{camel .Model.Name}}.schema.core');

const router = express.Router();

router.get(
  '/',
  auth,
  protect('{{camel .Model.Name}}:read'),
  wrapExpressAsync(async (req, res) => {
    const result = await controller.list{{plural (pascal .Model.Name)}}(req.query.filter, req.query);
    res.json(result);
  })
);

router.get(
  '/:id',
  auth,
  protect('{{camel .Model.Name}}:read'),
  validate({{camel .Model.Name}}IdSchema, 'params'),
  wrapExpressAsync(async (req, res) => {
    const item = await controller.get{{pascal .Model.Name}}ById(req.params.id);
    if (!item) {
      return res.status(404).json({ error: '{{titlecase .Model.Name}} not found' });
    }
    res.json(item);
  })
);

router.post(
  '/',
  auth,
  protect('{{camel .Model.Name}}:write'),
  validate(create{{pascal .Model.Name}}Schema, 'body'),
  wrapExpressAsync(async (req, res) => {
    const created = await controller.create{{pascal .Model.Name}}(req.body);
    res.status(201).json(created);
  })
);

router.patch(
  '/:id',
  auth,
  protect('{{camel .Model.Name}}:write'),
  validate({{camel .Model.Name}}IdSchema, 'params'),
  validate(update{{pascal .Model.Name}}Schema, 'body'),
  wrapExpressAsync(async (req, res) => {
    const updated = await controller.update{{pascal .Model.Name}}(req.params.id, req.body);
    res.json(updated);
  })
);

router.delete(
  '/:id',
  auth,
  protect('{{camel .Model.Name}}:delete'),
  validate({{camel .Model.Name}}IdSchema, 'params'),
  wrapExpressAsync(async (req, res) => {
    await controller.delete{{pascal .Model.Name}}(req.params.id);
    res.status(204).end();
  })
);

module.exports = router;
`
