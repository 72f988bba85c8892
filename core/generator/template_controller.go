package generator

// ControllerTemplate renders the Prisma-backed CRUD controller for one model.
// Regenerated on every run.
const ControllerTemplate = `// Code generated by constructors v{{.Version}}. DO NOT EDIT.
// Custom logic belongs in custom/controllers, which is never regenerated.

const { PrismaClient } = require('@prisma/client');

const prisma = new PrismaClient();

const create{{pascal .Model.Name}} = async (data) => {
  return prisma.{{camel .Model.Name}}.create({ data });
};

const get{{pascal .Model.Name}}ById = async (id) => {
  return prisma.{{camel .Model.Name}}.findUnique({ where: { id } });
};

const list{{plural (pascal .Model.Name)}} = async (filter = {}, { skip = 0, take = 50, orderBy } = {}) => {
  const [items, total] = await prisma.$transaction([
    prisma.{{camel .Model.Name}}.findMany({ where: filter, skip, take, orderBy }),
    prisma.{{camel .Model.Name}}.count({ where: filter }),
  ]);
  return { items, total, skip, take };
};

const update{{pascal .Model.Name}} = async (id, data) => {
  return prisma.{{camel .Model.Name}}.update({ where: { id }, data });
};

const delete{{pascal .Model.Name}} = async (id) => {
  return prisma.{{camel .Model.Name}}.delete({ where: { id } });
};

module.exports = {
  create{{pascal .Model.Name}},
  get{{pascal .Model.Name}}ById,
  list{{plural (pascal .Model.Name)}},
  update{{pascal .Model.Name}},
  delete{{pascal .Model.Name}},
};
`
