package generator

// QueueTemplate renders the BullMQ queue and worker for one model's
// background jobs. Regenerated on every run.
const QueueTemplate = `// Code generated by constructors v{{.Version}}. DO NOT EDIT.
// Job handlers live in custom/queues and are registered here by name.

const { Queue, Worker } = require('bullmq');

const handlers = require('../../custom/queues/{{camel .Model.Name}}.handlers');

const connection = {
  host: process.env.REDIS_HOST || 'localhost',
  port: Number(process.env.REDIS_PORT || 6379),
};

const QUEUE_NAME = '{{kebab (snake (pascal .Model.Name))}}';

const {{camel .Model.Name}}Queue = new Queue(QUEUE_NAME, { connection });

const {{camel .Model.Name}}Worker = new Worker(
  QUEUE_NAME,
  async (job) => {
    const handler = handlers[job.name];
    if (!handler) {
      throw new Error('no handler registered for job: ' + job.name);
    }
    return handler(job.data, job);
  },
  {
    connection,
    concurrency: Number(process.env.QUEUE_CONCURRENCY || 5),
  }
);

{{camel .Model.Name}}Worker.on('failed', (job, err) => {
  console.error('[' + QUEUE_NAME + '] job failed', job && job.id, err.message);
});

module.exports = {
  {{camel .Model.Name}}Queue,
  {{camel .Model.Name}}Worker,
};
`
